package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/TIHeitorDS/SASBApp/internal/domain"
	"github.com/TIHeitorDS/SASBApp/internal/store"
)

const (
	maxClientFieldLength    = 100
	maxIdempotencyKeyLength = 256
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

type Service struct {
	repo      store.AppointmentRepository
	catalog   store.ServiceCatalog
	directory store.StaffDirectory
	clock     Clock
}

func NewService(repo store.AppointmentRepository, catalog store.ServiceCatalog, directory store.StaffDirectory, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		directory: directory,
		clock:     ClockFunc(time.Now),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

type CreateInput struct {
	ServiceID      uuid.UUID
	StaffID        uuid.UUID
	StartTime      time.Time
	ClientName     string
	ClientContact  string
	Notes          string
	IdempotencyKey string
}

// Create validates in order: service, staff, required fields, past start,
// then the staff calendar. The scan and the insert share one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	svc, err := s.activeService(ctx, in.ServiceID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if err := s.activeStaff(ctx, in.StaffID); err != nil {
		return domain.Appointment{}, err
	}

	clientName, err := clientField("client_name", in.ClientName)
	if err != nil {
		return domain.Appointment{}, err
	}
	clientContact, err := clientField("client_contact", in.ClientContact)
	if err != nil {
		return domain.Appointment{}, err
	}
	if in.StartTime.IsZero() {
		return domain.Appointment{}, fieldRequired("start_time")
	}

	start := in.StartTime.UTC()
	appt := domain.Appointment{
		ServiceID:     in.ServiceID,
		StaffID:       in.StaffID,
		StartTime:     start,
		EndTime:       domain.EndTimeFor(start, svc),
		ClientName:    clientName,
		ClientContact: clientContact,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        domain.StatusReserved,
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > maxIdempotencyKeyLength {
			return domain.Appointment{}, validationError(KindFieldTooLong, "idempotency_key", "idempotency_key too long")
		}
		appt.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("sasb:create_appointment:"+in.StaffID.String()+":"+key))
	}

	now := s.now()
	var out domain.Appointment
	err = s.repo.InTransaction(ctx, func(ctx context.Context, tx store.CalendarTx) error {
		if err := tx.LockStaffCalendar(ctx, appt.StaffID); err != nil {
			return err
		}

		if appt.ID != uuid.Nil {
			existing, err := tx.GetForUpdate(ctx, appt.ID)
			switch {
			case err == nil:
				if !sameBooking(existing, appt) {
					return store.ErrIdempotencyConflict
				}
				out = existing
				return nil
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		if appt.StartTime.Before(now) {
			return startTimeInPast()
		}
		if err := ensureNoConflict(ctx, tx, appt, uuid.Nil); err != nil {
			return err
		}

		appt.CreatedAt = now
		appt.UpdatedAt = now
		created, err := tx.Insert(ctx, appt)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Appointment{}, operationError("create", err)
	}
	return out, nil
}

// UpdateInput is a partial change set; nil fields keep their stored value.
type UpdateInput struct {
	ServiceID     *uuid.UUID
	StaffID       *uuid.UUID
	StartTime     *time.Time
	ClientName    *string
	ClientContact *string
	Notes         *string
}

func (in UpdateInput) Empty() bool {
	return in.ServiceID == nil &&
		in.StaffID == nil &&
		in.StartTime == nil &&
		in.ClientName == nil &&
		in.ClientContact == nil &&
		in.Notes == nil
}

func (in UpdateInput) reschedules() bool {
	return in.ServiceID != nil || in.StaffID != nil || in.StartTime != nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (domain.Appointment, error) {
	now := s.now()
	var out domain.Appointment
	err := s.repo.InTransaction(ctx, func(ctx context.Context, tx store.CalendarTx) error {
		current, err := s.lockAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Empty() {
			return validationError(KindNoChanges, "", "no changes were provided")
		}
		if current.Status != domain.StatusReserved {
			return validationError(KindNotModifiable, "status", "only reserved appointments can be modified")
		}

		next := current

		var svc domain.Service
		if in.ServiceID != nil {
			svc, err = s.activeService(ctx, *in.ServiceID)
			next.ServiceID = *in.ServiceID
		} else {
			svc, err = s.lookupService(ctx, current.ServiceID)
		}
		if err != nil {
			return err
		}

		if in.StaffID != nil {
			if err := s.activeStaff(ctx, *in.StaffID); err != nil {
				return err
			}
			next.StaffID = *in.StaffID
		}

		if in.ClientName != nil {
			if next.ClientName, err = clientField("client_name", *in.ClientName); err != nil {
				return err
			}
		}
		if in.ClientContact != nil {
			if next.ClientContact, err = clientField("client_contact", *in.ClientContact); err != nil {
				return err
			}
		}
		if in.StartTime != nil {
			if in.StartTime.IsZero() {
				return fieldRequired("start_time")
			}
			next.StartTime = in.StartTime.UTC()
		}
		if in.Notes != nil {
			next.Notes = strings.TrimSpace(*in.Notes)
		}

		next.EndTime = domain.EndTimeFor(next.StartTime, svc)

		if in.reschedules() && next.StartTime.Before(now) {
			return startTimeInPast()
		}
		if in.reschedules() || !next.EndTime.Equal(current.EndTime) {
			if err := tx.LockStaffCalendar(ctx, next.StaffID); err != nil {
				return err
			}
			if err := ensureNoConflict(ctx, tx, next, next.ID); err != nil {
				return err
			}
		}

		next.UpdatedAt = now
		updated, err := tx.Update(ctx, next)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Appointment{}, operationError("update", err)
	}
	return out, nil
}

// Cancel releases a reservation whose slot has not started yet. A start time
// equal to now can still be cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	return s.transition(ctx, "cancel", id, domain.StatusCancelled, func(a domain.Appointment, now time.Time) error {
		if a.StartTime.Before(now) {
			return validationError(KindCannotCancelPast, "start_time", "cannot cancel an appointment that has already started")
		}
		return nil
	})
}

// Complete marks a reservation as performed once its slot has started.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	return s.transition(ctx, "complete", id, domain.StatusCompleted, func(a domain.Appointment, now time.Time) error {
		if a.StartTime.After(now) {
			return validationError(KindCannotCompleteFuture, "start_time", "cannot complete an appointment that has not started")
		}
		return nil
	})
}

func (s *Service) transition(ctx context.Context, op string, id uuid.UUID, next domain.Status, guard func(domain.Appointment, time.Time) error) (domain.Appointment, error) {
	now := s.now()
	var out domain.Appointment
	err := s.repo.InTransaction(ctx, func(ctx context.Context, tx store.CalendarTx) error {
		current, err := s.lockAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(next) {
			return validationError(KindInvalidTransition, "status",
				fmt.Sprintf("cannot move appointment from %s to %s", current.Status, next))
		}
		if err := guard(current, now); err != nil {
			return err
		}

		current.Status = next
		current.UpdatedAt = now
		updated, err := tx.Update(ctx, current)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Appointment{}, operationError(op, err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, appointmentNotFound()
	}
	appt, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Appointment{}, appointmentNotFound()
	}
	if err != nil {
		return domain.Appointment{}, operationError("get", err)
	}
	return appt, nil
}

type ListInput struct {
	StaffID     uuid.UUID
	Status      domain.Status
	WindowStart time.Time
	WindowEnd   time.Time
}

func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Appointment, error) {
	if in.WindowStart.IsZero() {
		return nil, fieldRequired("window_start")
	}
	if in.WindowEnd.IsZero() {
		return nil, fieldRequired("window_end")
	}
	start := in.WindowStart.UTC()
	end := in.WindowEnd.UTC()
	if !end.After(start) {
		return nil, validationError(KindInvalidWindow, "window_end", "window_end must be after window_start")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, validationError(KindInvalidStatus, "status", "unknown status "+string(in.Status))
	}

	rows, err := s.repo.List(ctx, store.ListFilter{
		StaffID:     in.StaffID,
		Status:      in.Status,
		WindowStart: start,
		WindowEnd:   end,
	})
	if err != nil {
		return nil, operationError("list", err)
	}
	return rows, nil
}

func (s *Service) lockAppointment(ctx context.Context, tx store.CalendarTx, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, appointmentNotFound()
	}
	appt, err := tx.GetForUpdate(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Appointment{}, appointmentNotFound()
	}
	return appt, err
}

func (s *Service) lookupService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	if id == uuid.Nil {
		return domain.Service{}, serviceInvalid()
	}
	svc, err := s.catalog.GetService(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Service{}, serviceInvalid()
	}
	if err != nil {
		return domain.Service{}, fmt.Errorf("appointments: get service: %w", err)
	}
	if svc.DurationMinutes <= 0 {
		return domain.Service{}, serviceInvalid()
	}
	return svc, nil
}

func (s *Service) activeService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	svc, err := s.lookupService(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	if !svc.IsActive {
		return domain.Service{}, serviceInvalid()
	}
	return svc, nil
}

func (s *Service) activeStaff(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return staffInvalid()
	}
	staff, err := s.directory.GetStaff(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return staffInvalid()
	}
	if err != nil {
		return fmt.Errorf("appointments: get staff: %w", err)
	}
	if !staff.Bookable() {
		return staffInvalid()
	}
	return nil
}

func ensureNoConflict(ctx context.Context, tx store.CalendarTx, appt domain.Appointment, exclude uuid.UUID) error {
	hits, err := tx.FindOverlapping(ctx, store.OverlapQuery{
		StaffID:   appt.StaffID,
		Start:     appt.StartTime,
		End:       appt.EndTime,
		Status:    domain.StatusReserved,
		ExcludeID: exclude,
	})
	if err != nil {
		return err
	}
	for _, h := range hits {
		if h.ID != exclude && h.Overlaps(appt.StartTime, appt.EndTime) {
			return staffTimeConflict()
		}
	}
	return nil
}

func clientField(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fieldRequired(field)
	}
	if utf8.RuneCountInString(v) > maxClientFieldLength {
		return "", fieldTooLong(field, maxClientFieldLength)
	}
	return v, nil
}

func sameBooking(a, b domain.Appointment) bool {
	return a.ServiceID == b.ServiceID &&
		a.StaffID == b.StaffID &&
		a.StartTime.Equal(b.StartTime) &&
		a.EndTime.Equal(b.EndTime) &&
		a.ClientName == b.ClientName &&
		a.ClientContact == b.ClientContact &&
		a.Notes == b.Notes
}

// operationError keeps rejections as they are and turns a late exclusion
// violation into the same conflict a scan would report.
func operationError(op string, err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return err
	}
	if errors.Is(err, store.ErrConflict) {
		return staffTimeConflict()
	}
	return fmt.Errorf("appointments: %s: %w", op, err)
}
