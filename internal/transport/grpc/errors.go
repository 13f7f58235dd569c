package grpc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/TIHeitorDS/SASBApp/internal/service/appointments"
	"github.com/TIHeitorDS/SASBApp/internal/store"
)

// ErrorDomain tags ErrorInfo details produced by this service.
const ErrorDomain = "sasb"

const kindIdempotencyConflict = "idempotency_conflict"

func codeForKind(kind appointments.Kind) codes.Code {
	switch kind {
	case appointments.KindAppointmentNotFound:
		return codes.NotFound
	case appointments.KindStaffTimeConflict,
		appointments.KindNotModifiable,
		appointments.KindInvalidTransition,
		appointments.KindCannotCancelPast,
		appointments.KindCannotCompleteFuture:
		return codes.FailedPrecondition
	default:
		return codes.InvalidArgument
	}
}

// rejectionStatus renders a structured rejection. The ErrorInfo reason is
// the rejection kind; the offending field rides in metadata and in a
// BadRequest violation.
func rejectionStatus(code codes.Code, kind, field, msg string) error {
	st := status.New(code, msg)
	info := &errdetails.ErrorInfo{Reason: kind, Domain: ErrorDomain}
	if field != "" {
		info.Metadata = map[string]string{"field": field}
	}

	var (
		withDetails *status.Status
		err         error
	)
	if field != "" {
		withDetails, err = st.WithDetails(info, &errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: field, Description: msg}},
		})
	} else {
		withDetails, err = st.WithDetails(info)
	}
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}

func invalidArgument(field, msg string) error {
	return rejectionStatus(codes.InvalidArgument, "invalid_argument", field, msg)
}

func isRejection(err error) bool {
	if _, ok := appointments.KindOf(err); ok {
		return true
	}
	return errors.Is(err, store.ErrIdempotencyConflict)
}

func toStatus(err error) error {
	var vErr *appointments.ValidationError
	if errors.As(err, &vErr) {
		return rejectionStatus(codeForKind(vErr.Kind), string(vErr.Kind), vErr.Field, vErr.Message)
	}
	if errors.Is(err, store.ErrIdempotencyConflict) {
		return rejectionStatus(codes.FailedPrecondition, kindIdempotencyConflict, "",
			"This request key was already used for a different appointment. Try again.")
	}
	return status.Error(codes.Internal, "internal error")
}
