package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitstop-backend/internal/models"
)

type VehicleRepo struct {
	pool *pgxpool.Pool
}

func NewVehicleRepo(pool *pgxpool.Pool) *VehicleRepo {
	return &VehicleRepo{pool: pool}
}

func (r *VehicleRepo) Create(ctx context.Context, v *models.Vehicle) error {
	v.ID = uuid.New()
	query := `INSERT INTO user_vehicles (id, user_id, nickname, make, model, model_year, engine_type, mileage_km, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		v.ID, v.UserID, v.Nickname, v.Make, v.Model, v.ModelYear, v.EngineType, v.MileageKM, v.Notes,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *VehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	query := `SELECT id, user_id, nickname, make, model, model_year, engine_type, mileage_km, notes, created_at, updated_at
		FROM user_vehicles WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.UserID, &v.Nickname, &v.Make, &v.Model, &v.ModelYear,
		&v.EngineType, &v.MileageKM, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VehicleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Vehicle, error) {
	query := `SELECT id, user_id, nickname, make, model, model_year, engine_type, mileage_km, notes, created_at, updated_at
		FROM user_vehicles WHERE user_id = $1
		ORDER BY nickname ASC NULLS LAST, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v := &models.Vehicle{}
		err := rows.Scan(
			&v.ID, &v.UserID, &v.Nickname, &v.Make, &v.Model, &v.ModelYear,
			&v.EngineType, &v.MileageKM, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

func (r *VehicleRepo) Update(ctx context.Context, id, userID uuid.UUID, req models.VehicleRequest) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	query := `UPDATE user_vehicles
		 SET nickname = $1, make = $2, model = $3, model_year = $4, engine_type = $5,
		     mileage_km = $6, notes = $7, updated_at = NOW()
		 WHERE id = $8 AND user_id = $9
		 RETURNING id, user_id, nickname, make, model, model_year, engine_type, mileage_km, notes, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		req.Nickname, req.Make, req.Model, req.ModelYear, req.EngineType,
		req.MileageKM, req.Notes, id, userID,
	).Scan(
		&v.ID, &v.UserID, &v.Nickname, &v.Make, &v.Model, &v.ModelYear,
		&v.EngineType, &v.MileageKM, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM user_vehicles WHERE id = $1 AND user_id = $2", id, userID)
	return err
}
