package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusReserved, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo reports whether next is reachable from s in one step.
// Only RESERVED has outgoing edges.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusReserved {
		return false
	}
	return next == StatusCancelled || next == StatusCompleted
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	ServiceID     uuid.UUID `bun:"service_id,notnull,type:uuid"`
	StaffID       uuid.UUID `bun:"staff_id,notnull,type:uuid"`
	StartTime     time.Time `bun:"start_time,notnull"`
	EndTime       time.Time `bun:"end_time,notnull"`
	ClientName    string    `bun:"client_name,notnull"`
	ClientContact string    `bun:"client_contact,notnull"`
	Notes         string    `bun:"notes,notnull"`
	Status        Status    `bun:"status,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

// Overlaps applies the half-open test to [a.StartTime, a.EndTime) and
// [start, end). Touching intervals do not overlap.
func (a Appointment) Overlaps(start, end time.Time) bool {
	return Overlap(a.StartTime, a.EndTime, start, end)
}

func Overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// EndTimeFor derives the end of a slot that starts at start and runs for the
// service's duration.
func EndTimeFor(start time.Time, svc Service) time.Time {
	return start.Add(svc.Duration())
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = StatusReserved
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = a.CreatedAt
		}
	case *bun.UpdateQuery:
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	}
	return nil
}
