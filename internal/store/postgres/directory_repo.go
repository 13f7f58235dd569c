package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/TIHeitorDS/SASBApp/internal/domain"
)

type ServiceCatalogRepo struct {
	db *bun.DB
}

func NewServiceCatalogRepo(db *bun.DB) *ServiceCatalogRepo {
	return &ServiceCatalogRepo{db: db}
}

func (r *ServiceCatalogRepo) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var s domain.Service
	err := reader(ctx, r.db).NewSelect().
		Model(&s).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Service{}, translateError(err)
	}
	return s, nil
}

type StaffDirectoryRepo struct {
	db *bun.DB
}

func NewStaffDirectoryRepo(db *bun.DB) *StaffDirectoryRepo {
	return &StaffDirectoryRepo{db: db}
}

func (r *StaffDirectoryRepo) GetStaff(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var u domain.User
	err := reader(ctx, r.db).NewSelect().
		Model(&u).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.User{}, translateError(err)
	}
	return u, nil
}
