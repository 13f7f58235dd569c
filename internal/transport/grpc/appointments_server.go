package grpc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/TIHeitorDS/SASBApp/internal/domain"
	"github.com/TIHeitorDS/SASBApp/internal/service/appointments"
)

type AppointmentsServer struct {
	svc appointmentsService
	log *slog.Logger
}

type appointmentsService interface {
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	Complete(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, in appointments.ListInput) ([]domain.Appointment, error)
}

var _ AppointmentsServiceServer = (*AppointmentsServer)(nil)

func NewAppointmentsServer(svc appointmentsService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.appointments")),
	}
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, invalidArgument("", "request is required")
	}
	serviceID, err := parseOptionalID("service_id", req.ServiceID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "service_id"))
		return nil, err
	}
	staffID, err := parseOptionalID("staff_id", req.StaffID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "staff_id"))
		return nil, err
	}

	in := appointments.CreateInput{
		ServiceID:      serviceID,
		StaffID:        staffID,
		ClientName:     req.ClientName,
		ClientContact:  req.ClientContact,
		Notes:          req.Notes,
		IdempotencyKey: idempotencyKey(ctx),
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}

	appt, err := s.svc.Create(ctx, in)
	if err != nil {
		return nil, s.fail(log, err, slog.String("staff_id", req.StaffID), slog.String("service_id", req.ServiceID))
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("staff_id", appt.StaffID.String()),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *AppointmentsServer) UpdateAppointment(ctx context.Context, req *UpdateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, invalidArgument("", "request is required")
	}
	id, err := parseRequiredID("appointment_id", req.AppointmentID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "appointment_id"))
		return nil, err
	}

	in := appointments.UpdateInput{
		StartTime:     req.StartTime,
		ClientName:    req.ClientName,
		ClientContact: req.ClientContact,
		Notes:         req.Notes,
	}
	if req.ServiceID != nil {
		serviceID, err := parseOptionalID("service_id", *req.ServiceID)
		if err != nil {
			log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "service_id"))
			return nil, err
		}
		in.ServiceID = &serviceID
	}
	if req.StaffID != nil {
		staffID, err := parseOptionalID("staff_id", *req.StaffID)
		if err != nil {
			log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "staff_id"))
			return nil, err
		}
		in.StaffID = &staffID
	}

	appt, err := s.svc.Update(ctx, id, in)
	if err != nil {
		return nil, s.fail(log, err, slog.String("appointment_id", id.String()))
	}

	log.Info(
		"appointment updated",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("staff_id", appt.StaffID.String()),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *AppointmentsServer) CancelAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	return s.byID(ctx, "CancelAppointment", "appointment cancelled", req, s.svc.Cancel)
}

func (s *AppointmentsServer) CompleteAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	return s.byID(ctx, "CompleteAppointment", "appointment completed", req, s.svc.Complete)
}

func (s *AppointmentsServer) GetAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	return s.byID(ctx, "GetAppointment", "", req, s.svc.Get)
}

func (s *AppointmentsServer) byID(ctx context.Context, rpc, success string, req *AppointmentIDRequest, call func(context.Context, uuid.UUID) (domain.Appointment, error)) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", rpc))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, invalidArgument("", "request is required")
	}
	id, err := parseRequiredID("appointment_id", req.AppointmentID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "appointment_id"))
		return nil, err
	}

	appt, err := call(ctx, id)
	if err != nil {
		return nil, s.fail(log, err, slog.String("appointment_id", id.String()))
	}

	if success != "" {
		log.Info(success, slog.String("appointment_id", appt.ID.String()), slog.String("status", string(appt.Status)))
	}
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *AppointmentsServer) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, invalidArgument("", "request is required")
	}
	staffID, err := parseOptionalID("staff_id", req.StaffID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "staff_id"))
		return nil, err
	}

	in := appointments.ListInput{
		StaffID: staffID,
		Status:  domain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
	}
	if req.WindowStart != nil {
		in.WindowStart = *req.WindowStart
	}
	if req.WindowEnd != nil {
		in.WindowEnd = *req.WindowEnd
	}

	appts, err := s.svc.List(ctx, in)
	if err != nil {
		return nil, s.fail(log, err, slog.String("staff_id", req.StaffID))
	}

	out := make([]*Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toWireAppointment(a))
	}

	log.Debug(
		"appointments listed",
		slog.String("staff_id", req.StaffID),
		slog.Int("count", len(out)),
		slog.Time("window_start", in.WindowStart),
		slog.Time("window_end", in.WindowEnd),
	)
	return &ListAppointmentsResponse{Appointments: out}, nil
}

func (s *AppointmentsServer) fail(log *slog.Logger, err error, attrs ...any) error {
	if kind, ok := appointments.KindOf(err); ok && kind == appointments.KindStaffTimeConflict {
		log.Info("appointment conflict", attrs...)
		return toStatus(err)
	}
	if isRejection(err) {
		log.Warn("request rejected", append(attrs, slog.Any("err", err))...)
		return toStatus(err)
	}
	log.Error("appointment operation failed", append(attrs, slog.Any("err", err))...)
	return toStatus(err)
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func parseOptionalID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidArgument(field, field+" must be a UUID")
	}
	return id, nil
}

func parseRequiredID(field, raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, invalidArgument(field, field+" is required")
	}
	return parseOptionalID(field, raw)
}

func toWireAppointment(a domain.Appointment) *Appointment {
	return &Appointment{
		ID:            a.ID.String(),
		ServiceID:     a.ServiceID.String(),
		StaffID:       a.StaffID.String(),
		StartTime:     a.StartTime.UTC(),
		EndTime:       a.EndTime.UTC(),
		ClientName:    a.ClientName,
		ClientContact: a.ClientContact,
		Notes:         a.Notes,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt.UTC(),
		UpdatedAt:     a.UpdatedAt.UTC(),
	}
}
