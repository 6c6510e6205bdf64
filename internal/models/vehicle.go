package models

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Nickname   *string   `json:"nickname"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	ModelYear  int       `json:"model_year"`
	EngineType *string   `json:"engine_type"`
	MileageKM  *int      `json:"mileage_km"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type VehicleRequest struct {
	Nickname   *string `json:"nickname"`
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	ModelYear  int     `json:"model_year"`
	EngineType *string `json:"engine_type"`
	MileageKM  *int    `json:"mileage_km"`
	Notes      *string `json:"notes"`
}
