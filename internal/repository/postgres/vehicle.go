package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (name, brand, class, daily_price, weekly_price, monthly_price, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, v.Name, v.Brand, v.Class,
		v.Rates.DailyPrice, v.Rates.WeeklyPrice, v.Rates.MonthlyPrice,
		v.Status, time.Now(), time.Now()).Scan(&v.ID)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, name, brand, class, daily_price, weekly_price, monthly_price, status, created_on, updated_on
	          FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.Brand, &v.Class,
		&v.Rates.DailyPrice, &v.Rates.WeeklyPrice, &v.Rates.MonthlyPrice,
		&v.Status, &v.CreatedOn, &v.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET name=$1, brand=$2, class=$3, daily_price=$4, weekly_price=$5, monthly_price=$6, status=$7, updated_on=$8 WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query, v.Name, v.Brand, v.Class,
		v.Rates.DailyPrice, v.Rates.WeeklyPrice, v.Rates.MonthlyPrice,
		v.Status, time.Now(), v.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, name, brand, class, daily_price, weekly_price, monthly_price, status, created_on, updated_on
	          FROM vehicles`

	args := []interface{}{}
	argIdx := 1
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Brand, &v.Class,
			&v.Rates.DailyPrice, &v.Rates.WeeklyPrice, &v.Rates.MonthlyPrice,
			&v.Status, &v.CreatedOn, &v.UpdatedOn); err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, count, rows.Err()
}
