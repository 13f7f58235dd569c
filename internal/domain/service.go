package domain

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	MaxServiceNameLength   = 100
	MinServiceDurationMins = 1
	MaxServiceDurationMins = 480
)

var (
	MinServicePrice = decimal.RequireFromString("0.01")
	MaxServicePrice = decimal.RequireFromString("10000.00")
)

var (
	ErrServiceNameRequired   = errors.New("service name is required")
	ErrServiceNameTooLong    = errors.New("service name must be at most 100 characters")
	ErrServiceDuration       = errors.New("service duration must be between 1 and 480 minutes")
	ErrServicePriceRange     = errors.New("service price must be between 0.01 and 10000.00")
	ErrServicePricePrecision = errors.New("service price must have at most two decimal places")
)

// Service is a bookable offering in the catalog.
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID              uuid.UUID       `bun:"id,pk,type:uuid"`
	Name            string          `bun:"name,notnull,unique"`
	Description     string          `bun:"description,notnull"`
	DurationMinutes int             `bun:"duration_minutes,notnull"`
	Price           decimal.Decimal `bun:"price,notnull,type:numeric(10,2)"`
	IsActive        bool            `bun:"is_active,notnull"`
	CreatedAt       time.Time       `bun:"created_at,notnull"`
	UpdatedAt       time.Time       `bun:"updated_at,notnull"`
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

func (s Service) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ErrServiceNameRequired
	}
	if utf8.RuneCountInString(name) > MaxServiceNameLength {
		return ErrServiceNameTooLong
	}
	if s.DurationMinutes < MinServiceDurationMins || s.DurationMinutes > MaxServiceDurationMins {
		return ErrServiceDuration
	}
	if s.Price.LessThan(MinServicePrice) || s.Price.GreaterThan(MaxServicePrice) {
		return ErrServicePriceRange
	}
	if !s.Price.Equal(s.Price.Truncate(2)) {
		return ErrServicePricePrecision
	}
	return nil
}

func (s *Service) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}
