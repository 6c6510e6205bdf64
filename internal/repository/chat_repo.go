package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitstop-backend/internal/models"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) Create(ctx context.Context, c *models.Chat) error {
	c.ID = uuid.New()
	query := `INSERT INTO chats (id, user_id, vehicle_id, title)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.UserID, c.VehicleID, c.Title,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *ChatRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	c := &models.Chat{}
	query := `SELECT id, user_id, vehicle_id, title, created_at, updated_at FROM chats WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.VehicleID, &c.Title, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetVehicleID returns the vehicle a chat is scoped to, if any. Scoped to the
// owning user so one user's chat cannot leak another's vehicle link.
func (r *ChatRepo) GetVehicleID(ctx context.Context, chatID, userID uuid.UUID) (*uuid.UUID, error) {
	var vehicleID *uuid.UUID
	err := r.pool.QueryRow(ctx,
		"SELECT vehicle_id FROM chats WHERE id = $1 AND user_id = $2", chatID, userID,
	).Scan(&vehicleID)
	if err != nil {
		return nil, err
	}
	return vehicleID, nil
}

// ListByUser returns the user's chats, most recently updated first, each with
// a preview of its latest message.
func (r *ChatRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatListItem, error) {
	query := `SELECT c.id, c.user_id, c.vehicle_id, c.title, c.created_at, c.updated_at, m.content
		FROM chats c
		LEFT JOIN LATERAL (
			SELECT content FROM messages WHERE chat_id = c.id ORDER BY created_at DESC LIMIT 1
		) m ON TRUE
		WHERE c.user_id = $1
		ORDER BY c.updated_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*models.ChatListItem
	for rows.Next() {
		item := &models.ChatListItem{}
		err := rows.Scan(
			&item.ID, &item.UserID, &item.VehicleID, &item.Title,
			&item.CreatedAt, &item.UpdatedAt, &item.LastMessage,
		)
		if err != nil {
			return nil, err
		}
		chats = append(chats, item)
	}

	return chats, rows.Err()
}

// Touch bumps updated_at so the chat sorts to the top of the sidebar.
func (r *ChatRepo) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE chats SET updated_at = NOW() WHERE id = $1", id)
	return err
}

func (r *ChatRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM chats WHERE id = $1 AND user_id = $2", id, userID)
	return err
}
