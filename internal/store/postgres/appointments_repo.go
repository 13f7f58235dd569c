package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/TIHeitorDS/SASBApp/internal/domain"
	"github.com/TIHeitorDS/SASBApp/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type calendarTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := reader(ctx, r.db).NewSelect().
		Model(&a).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Appointment{}, translateError(err)
	}
	return a, nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error) {
	rows := []domain.Appointment{}
	q := reader(ctx, r.db).NewSelect().
		Model(&rows).
		Where("start_time < ?", filter.WindowEnd).
		Where("end_time > ?", filter.WindowStart)
	if filter.StaffID != uuid.Nil {
		q = q.Where("staff_id = ?", filter.StaffID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.OrderExpr("start_time ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) InTransaction(ctx context.Context, fn func(ctx context.Context, tx store.CalendarTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(withTx(ctx, tx), calendarTx{tx: tx})
	})
}

func (c calendarTx) LockStaffCalendar(ctx context.Context, staffID uuid.UUID) error {
	_, err := c.tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", staffID.String()).Exec(ctx)
	return err
}

func (c calendarTx) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := c.tx.NewSelect().
		Model(&a).
		Where("id = ?", id).
		For("UPDATE").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Appointment{}, translateError(err)
	}
	return a, nil
}

func (c calendarTx) FindOverlapping(ctx context.Context, q store.OverlapQuery) ([]domain.Appointment, error) {
	status := q.Status
	if status == "" {
		status = domain.StatusReserved
	}

	var rows []domain.Appointment
	sel := c.tx.NewSelect().
		Model(&rows).
		Where("staff_id = ?", q.StaffID).
		Where("status = ?", status).
		Where("start_time < ?", q.End).
		Where("end_time > ?", q.Start)
	if q.ExcludeID != uuid.Nil {
		sel = sel.Where("id <> ?", q.ExcludeID)
	}
	if err := sel.OrderExpr("start_time ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c calendarTx) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	if _, err := c.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, translateError(err)
	}
	return m, nil
}

func (c calendarTx) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := c.tx.NewUpdate().
		Model(&m).
		Column("service_id", "staff_id", "start_time", "end_time", "client_name", "client_contact", "notes", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, translateError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}
