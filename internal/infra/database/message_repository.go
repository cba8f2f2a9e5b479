package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/smartzap/smartzap-events/internal/entity"
)

type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) SaveInbound(ctx context.Context, msg *entity.InboundMessage) error {
	query := `
		INSERT INTO inbound_messages (id, instance_id, wa_message_id, from_phone, profile_name, type, body, received_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		msg.ID,
		msg.InstanceID,
		msg.WaMessageID,
		msg.FromPhone,
		msg.ProfileName,
		msg.Type,
		msg.Body,
		msg.ReceivedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Redelivery da Meta: a mensagem já foi ingerida. No-op.
			log.Printf("⚠️ Mensagem %s já ingerida, ignorando redelivery", msg.WaMessageID)
			return nil
		}
		return fmt.Errorf("erro ao salvar mensagem inbound: %w", err)
	}

	return nil
}
