package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/TIHeitorDS/SASBApp/internal/domain"
)

type OverlapQuery struct {
	StaffID   uuid.UUID
	Start     time.Time
	End       time.Time
	Status    domain.Status
	ExcludeID uuid.UUID
}

type CalendarTx interface {
	// LockStaffCalendar serializes writers for one staff member until the
	// transaction ends.
	LockStaffCalendar(ctx context.Context, staffID uuid.UUID) error

	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]domain.Appointment, error)
	Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
