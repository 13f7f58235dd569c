package grpc

import "time"

type Appointment struct {
	ID            string    `json:"id"`
	ServiceID     string    `json:"service_id"`
	StaffID       string    `json:"staff_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	ClientName    string    `json:"client_name"`
	ClientContact string    `json:"client_contact"`
	Notes         string    `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type CreateAppointmentRequest struct {
	ServiceID     string     `json:"service_id"`
	StaffID       string     `json:"staff_id"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	ClientName    string     `json:"client_name"`
	ClientContact string     `json:"client_contact"`
	Notes         string     `json:"notes,omitempty"`
}

// UpdateAppointmentRequest carries a partial change set. Absent fields are
// left untouched.
type UpdateAppointmentRequest struct {
	AppointmentID string     `json:"appointment_id"`
	ServiceID     *string    `json:"service_id,omitempty"`
	StaffID       *string    `json:"staff_id,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	ClientName    *string    `json:"client_name,omitempty"`
	ClientContact *string    `json:"client_contact,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

type AppointmentIDRequest struct {
	AppointmentID string `json:"appointment_id"`
}

type ListAppointmentsRequest struct {
	StaffID     string     `json:"staff_id,omitempty"`
	Status      string     `json:"status,omitempty"`
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}
