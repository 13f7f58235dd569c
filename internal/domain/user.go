package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// User is a directory entry. Staff members are users with RoleEmployee.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Username  string    `bun:"username,notnull,unique"`
	FirstName string    `bun:"first_name,notnull"`
	LastName  string    `bun:"last_name,notnull"`
	Email     string    `bun:"email,notnull"`
	Phone     string    `bun:"phone,notnull"`
	Role      Role      `bun:"role,notnull"`
	IsStaff   bool      `bun:"is_staff,notnull"`
	IsActive  bool      `bun:"is_active,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type UserInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	IsStaff   bool
}

func NewAdministrator(in UserInput) User {
	u := newUser(RoleAdmin, in)
	u.IsStaff = true
	return u
}

func NewEmployee(in UserInput) User {
	return newUser(RoleEmployee, in)
}

func newUser(role Role, in UserInput) User {
	return User{
		Username:  NormalizeUsername(in.Username),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Role:      role,
		IsStaff:   in.IsStaff,
		IsActive:  true,
	}
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Bookable reports whether u can be assigned appointments.
func (u User) Bookable() bool {
	return u.Role == RoleEmployee && u.IsActive
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	u.Username = NormalizeUsername(u.Username)
	if u.Role == RoleAdmin {
		u.IsStaff = true
	}
	switch query.(type) {
	case *bun.InsertQuery:
		if u.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			u.ID = id
		}
		if u.Role == "" {
			u.Role = RoleEmployee
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now
		}
		if u.UpdatedAt.IsZero() {
			u.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		u.UpdatedAt = now
	}
	return nil
}
