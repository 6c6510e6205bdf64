package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitstop-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, username, preferred_language)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	user.ID = uuid.New()
	user.IsActive = true
	if user.PreferredLanguage == "" {
		user.PreferredLanguage = "en"
	}

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Username, user.PreferredLanguage,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, username, full_name, avatar_url, phone_number,
		preferred_language, is_active, created_at, last_login_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Username, &user.FullName,
		&user.AvatarURL, &user.PhoneNumber, &user.PreferredLanguage,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, username, full_name, avatar_url, phone_number,
		preferred_language, is_active, created_at, last_login_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Username, &user.FullName,
		&user.AvatarURL, &user.PhoneNumber, &user.PreferredLanguage,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetPreferredLanguage is the narrow read the chat pipeline needs before
// composing a prompt.
func (r *UserRepo) GetPreferredLanguage(ctx context.Context, id uuid.UUID) (string, error) {
	var lang string
	err := r.pool.QueryRow(ctx, "SELECT preferred_language FROM users WHERE id = $1", id).Scan(&lang)
	if err != nil {
		return "", err
	}
	return lang, nil
}

// UpdateProfile applies a partial update. Nil fields keep their current
// values via COALESCE.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	user := &models.User{}
	query := `UPDATE users
		 SET username = COALESCE($1, username),
		     full_name = COALESCE($2, full_name),
		     avatar_url = COALESCE($3, avatar_url),
		     phone_number = COALESCE($4, phone_number),
		     preferred_language = COALESCE($5, preferred_language)
		 WHERE id = $6
		 RETURNING id, email, password_hash, username, full_name, avatar_url, phone_number,
		           preferred_language, is_active, created_at, last_login_at`

	err := r.pool.QueryRow(ctx, query,
		req.Username, req.FullName, req.AvatarURL, req.PhoneNumber, req.PreferredLanguage, id,
	).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Username, &user.FullName,
		&user.AvatarURL, &user.PhoneNumber, &user.PreferredLanguage,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, id)
	return err
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = NOW() WHERE id = $1", id)
	return err
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}
