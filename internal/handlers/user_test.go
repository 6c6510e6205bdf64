package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"pitstop-backend/internal/middleware"
	"pitstop-backend/internal/models"
)

type stubProfileRepo struct {
	user       *models.User
	updated    *models.User
	updatedPwd string
	deleted    bool
}

func (s *stubProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubProfileRepo) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	u := *s.user
	if req.PreferredLanguage != nil {
		u.PreferredLanguage = *req.PreferredLanguage
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	s.updated = &u
	return &u, nil
}

func (s *stubProfileRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	s.updatedPwd = passwordHash
	return nil
}

func (s *stubProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = true
	return nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestUserHandler_UpdateMe_LanguageValidation(t *testing.T) {
	userID := uuid.New()
	repo := &stubProfileRepo{user: &models.User{ID: userID, PreferredLanguage: "en"}}
	h := NewUserHandler(repo)

	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/v1/user/me", `{"preferred_language":"fr"}`, userID))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Error.Fields["preferred_language"] == "" {
		t.Error("expected a field error for preferred_language")
	}
	if repo.updated != nil {
		t.Error("invalid language must not be written")
	}
}

func TestUserHandler_UpdateMe_SwitchToSwahili(t *testing.T) {
	userID := uuid.New()
	repo := &stubProfileRepo{user: &models.User{ID: userID, PreferredLanguage: "en"}}
	h := NewUserHandler(repo)

	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/v1/user/me", `{"preferred_language":"sw"}`, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if repo.updated == nil || repo.updated.PreferredLanguage != "sw" {
		t.Error("language switch was not persisted")
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantUpdate bool
	}{
		{"wrong current password", `{"current_password":"WrongPass1","new_password":"NewSecret1"}`, http.StatusUnauthorized, false},
		{"weak new password", `{"current_password":"CurrentPass1","new_password":"short"}`, http.StatusBadRequest, false},
		{"no digit in new password", `{"current_password":"CurrentPass1","new_password":"NoDigitsHere"}`, http.StatusBadRequest, false},
		{"success", `{"current_password":"CurrentPass1","new_password":"NewSecret1"}`, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubProfileRepo{user: &models.User{ID: userID, PasswordHash: string(hash)}}
			h := NewUserHandler(repo)

			rr := httptest.NewRecorder()
			h.ChangePassword(rr, authedRequest(http.MethodPost, "/api/v1/user/me/password", tt.body, userID))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantUpdate && repo.updatedPwd == "" {
				t.Error("expected a new password hash to be stored")
			}
			if !tt.wantUpdate && repo.updatedPwd != "" {
				t.Error("password must not change on a rejected request")
			}
			if tt.wantUpdate {
				if bcrypt.CompareHashAndPassword([]byte(repo.updatedPwd), []byte("NewSecret1")) != nil {
					t.Error("stored hash does not match the new password")
				}
			}
		})
	}
}
