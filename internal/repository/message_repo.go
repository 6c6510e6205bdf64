package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitstop-backend/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.Message) error {
	m.ID = uuid.New()
	var metadata any
	if len(m.Metadata) > 0 {
		metadata = json.RawMessage(m.Metadata)
	}

	query := `INSERT INTO messages (id, chat_id, role, content, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		m.ID, m.ChatID, m.Role, m.Content, metadata,
	).Scan(&m.CreatedAt)
}

// AppendExchange writes a completed user/assistant turn in one round-trip.
// The two inserts share a pgx batch so ordering is preserved without a second
// network hop.
func (r *MessageRepo) AppendExchange(ctx context.Context, chatID uuid.UUID, userContent, assistantContent string) error {
	batch := &pgx.Batch{}
	batch.Queue(
		"INSERT INTO messages (id, chat_id, role, content) VALUES ($1, $2, 'user', $3)",
		uuid.New(), chatID, userContent,
	)
	batch.Queue(
		"INSERT INTO messages (id, chat_id, role, content) VALUES ($1, $2, 'assistant', $3)",
		uuid.New(), chatID, assistantContent,
	)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *MessageRepo) ListByChat(ctx context.Context, chatID uuid.UUID) ([]*models.Message, error) {
	query := `SELECT id, chat_id, role, content, metadata, created_at
		FROM messages WHERE chat_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.Metadata, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
