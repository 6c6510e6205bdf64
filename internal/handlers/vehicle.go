package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pitstop-backend/internal/middleware"
	"pitstop-backend/internal/models"
)

type vehicleRepository interface {
	Create(ctx context.Context, v *models.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Vehicle, error)
	Update(ctx context.Context, id, userID uuid.UUID, req models.VehicleRequest) (*models.Vehicle, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type VehicleHandler struct {
	vehicleRepo vehicleRepository
}

func NewVehicleHandler(vehicleRepo vehicleRepository) *VehicleHandler {
	return &VehicleHandler{vehicleRepo: vehicleRepo}
}

func validateVehicleRequest(req models.VehicleRequest) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Make) == "" {
		fields["make"] = "Make is required"
	}
	if strings.TrimSpace(req.Model) == "" {
		fields["model"] = "Model is required"
	}
	if req.ModelYear < 1950 || req.ModelYear > 2030 {
		fields["model_year"] = "Model year must be between 1950 and 2030"
	}
	if req.MileageKM != nil && *req.MileageKM < 0 {
		fields["mileage_km"] = "Mileage cannot be negative"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if fields := validateVehicleRequest(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid vehicle details", fields, r))
		return
	}

	vehicle := &models.Vehicle{
		UserID:     userID,
		Nickname:   req.Nickname,
		Make:       strings.TrimSpace(req.Make),
		Model:      strings.TrimSpace(req.Model),
		ModelYear:  req.ModelYear,
		EngineType: req.EngineType,
		MileageKM:  req.MileageKM,
		Notes:      req.Notes,
	}
	if err := h.vehicleRepo.Create(r.Context(), vehicle); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save vehicle", r))
		return
	}

	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleRepo.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list vehicles", r))
		return
	}
	if vehicles == nil {
		vehicles = []*models.Vehicle{}
	}

	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid vehicle ID", r))
		return
	}

	vehicle, err := h.vehicleRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Vehicle not found", r))
		return
	}
	if vehicle.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid vehicle ID", r))
		return
	}

	var req models.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if fields := validateVehicleRequest(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid vehicle details", fields, r))
		return
	}

	vehicle, err := h.vehicleRepo.Update(r.Context(), id, middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Vehicle not found", r))
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid vehicle ID", r))
		return
	}

	if err := h.vehicleRepo.Delete(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete vehicle", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}
