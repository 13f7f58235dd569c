package appointments

import (
	"errors"
	"strconv"
)

// Kind classifies a rejected operation. Values are stable and reach clients
// verbatim.
type Kind string

const (
	KindFieldRequired            Kind = "field_required"
	KindFieldTooLong             Kind = "field_too_long"
	KindInvalidWindow            Kind = "invalid_window"
	KindInvalidStatus            Kind = "invalid_status"
	KindServiceInvalidOrInactive Kind = "service_invalid_or_inactive"
	KindStaffInvalidOrInactive   Kind = "staff_invalid_or_inactive"
	KindStartTimeInPast          Kind = "start_time_in_past"
	KindStaffTimeConflict        Kind = "staff_time_conflict"
	KindAppointmentNotFound      Kind = "appointment_not_found"
	KindNoChanges                Kind = "no_changes"
	KindNotModifiable            Kind = "not_modifiable"
	KindInvalidTransition        Kind = "invalid_transition"
	KindCannotCancelPast         Kind = "cannot_cancel_past"
	KindCannotCompleteFuture     Kind = "cannot_complete_future"
)

// ValidationError is a recoverable rejection. Field is empty when the
// failure is not attributable to a single input.
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(kind Kind, field, msg string) error {
	return &ValidationError{Kind: kind, Field: field, Message: msg}
}

// KindOf extracts the rejection kind from err, if any.
func KindOf(err error) (Kind, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Kind, true
	}
	return "", false
}

func fieldRequired(field string) error {
	return validationError(KindFieldRequired, field, field+" is required")
}

func fieldTooLong(field string, limit int) error {
	return validationError(KindFieldTooLong, field, field+" must be at most "+strconv.Itoa(limit)+" characters")
}

func serviceInvalid() error {
	return validationError(KindServiceInvalidOrInactive, "service_id", "service does not exist or is inactive")
}

func staffInvalid() error {
	return validationError(KindStaffInvalidOrInactive, "staff_id", "staff member does not exist or is inactive")
}

func startTimeInPast() error {
	return validationError(KindStartTimeInPast, "start_time", "start_time cannot be in the past")
}

func staffTimeConflict() error {
	return validationError(KindStaffTimeConflict, "start_time", "staff member already has an appointment during that time")
}

func appointmentNotFound() error {
	return validationError(KindAppointmentNotFound, "id", "appointment not found")
}
