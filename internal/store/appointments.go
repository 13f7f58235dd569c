package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/TIHeitorDS/SASBApp/internal/domain"
)

type ListFilter struct {
	StaffID     uuid.UUID
	Status      domain.Status
	WindowStart time.Time
	WindowEnd   time.Time
}

type AppointmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Appointment, error)

	// InTransaction runs fn in one transaction. Conflict scans and the
	// writes that depend on them must happen inside the same call.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx CalendarTx) error) error
}

// ServiceCatalog resolves bookable services. Missing ids yield ErrNotFound.
type ServiceCatalog interface {
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
}

// StaffDirectory resolves staff members. Missing ids yield ErrNotFound.
type StaffDirectory interface {
	GetStaff(ctx context.Context, id uuid.UUID) (domain.User, error)
}
