package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smartzap/smartzap-events/internal/entity"
)

type LedgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

func (r *LedgerRepository) FindByMessageID(ctx context.Context, messageID string) (*entity.CampaignMessage, error) {
	query := `
		SELECT id, campaign_id, phone, status
		FROM campaign_contacts
		WHERE message_id = $1
	`

	var msg entity.CampaignMessage
	msg.MessageID = messageID

	err := r.DB.QueryRowContext(ctx, query, messageID).Scan(
		&msg.ID,
		&msg.CampaignID,
		&msg.Phone,
		&msg.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// Mensagem de fora das campanhas rastreadas. Não é erro.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar ledger por message_id: %w", err)
	}

	return &msg, nil
}

// ApplyTransition grava o status novo com a guarda de progressão repetida
// no WHERE: mesmo com dois handlers concorrentes, só um UPDATE muda a linha.
func (r *LedgerRepository) ApplyTransition(ctx context.Context, campaignID, phone string, next entity.DeliveryStatus, at time.Time, failure *entity.FailureInfo) (bool, error) {
	var query string
	var args []interface{}

	switch next {
	case entity.StatusSent:
		query = `
			UPDATE campaign_contacts
			SET status = 'sent', sent_at = $3
			WHERE campaign_id = $1 AND phone = $2
			  AND status = 'pending'
			RETURNING id
		`
		args = []interface{}{campaignID, phone, at}

	case entity.StatusDelivered:
		query = `
			UPDATE campaign_contacts
			SET status = 'delivered', delivered_at = $3
			WHERE campaign_id = $1 AND phone = $2
			  AND status NOT IN ('delivered', 'read', 'failed')
			RETURNING id
		`
		args = []interface{}{campaignID, phone, at}

	case entity.StatusRead:
		query = `
			UPDATE campaign_contacts
			SET status = 'read', read_at = $3
			WHERE campaign_id = $1 AND phone = $2
			  AND status NOT IN ('read', 'failed')
			RETURNING id
		`
		args = []interface{}{campaignID, phone, at}

	case entity.StatusFailed:
		code := 0
		reason := ""
		if failure != nil {
			code = failure.Code
			reason = failure.Reason
		}
		query = `
			UPDATE campaign_contacts
			SET status = 'failed', failed_at = $3, failure_code = $4, failure_reason = $5
			WHERE campaign_id = $1 AND phone = $2
			  AND status <> 'failed'
			RETURNING id
		`
		args = []interface{}{campaignID, phone, at, code, reason}

	default:
		return false, fmt.Errorf("transição para '%s' não é gravável", next)
	}

	var id string
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// Guarda barrou: outro evento chegou primeiro.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("erro ao aplicar transição de status: %w", err)
	}

	return true, nil
}
