package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartzap/smartzap-events/internal/entity"
)

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

// IncrementCounter soma direto no banco (col = col + 1), atômico mesmo
// com webhooks concorrentes. Nada de ler, somar e gravar.
func (r *CampaignRepository) IncrementCounter(ctx context.Context, campaignID string, counter entity.Counter) error {
	var query string

	// Coluna via whitelist, nunca interpolada da entrada.
	switch counter {
	case entity.CounterSent:
		query = `UPDATE campaigns SET sent = sent + 1 WHERE id = $1`
	case entity.CounterDelivered:
		query = `UPDATE campaigns SET delivered = delivered + 1 WHERE id = $1`
	case entity.CounterRead:
		query = `UPDATE campaigns SET read = read + 1 WHERE id = $1`
	case entity.CounterFailed:
		query = `UPDATE campaigns SET failed = failed + 1 WHERE id = $1`
	default:
		return fmt.Errorf("contador desconhecido: %s", counter)
	}

	_, err := r.DB.ExecContext(ctx, query, campaignID)
	if err != nil {
		return fmt.Errorf("erro ao incrementar contador %s: %w", counter, err)
	}
	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	query := `
		SELECT id, instance_id, name, template_name, status, recipients,
		       sent, delivered, read, failed,
		       created_at, scheduled_at, started_at, completed_at
		FROM campaigns
		WHERE id = $1
	`

	var c entity.Campaign
	var instanceID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&instanceID,
		&c.Name,
		&c.TemplateName,
		&c.Status,
		&c.Recipients,
		&c.Sent,
		&c.Delivered,
		&c.Read,
		&c.Failed,
		&c.CreatedAt,
		&c.ScheduledAt,
		&c.StartedAt,
		&c.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar campanha: %w", err)
	}
	c.InstanceID = instanceID.String

	return &c, nil
}

func (r *CampaignRepository) List(ctx context.Context, instanceID string) ([]entity.Campaign, error) {
	query := `
		SELECT id, instance_id, name, template_name, status, recipients,
		       sent, delivered, read, failed,
		       created_at, scheduled_at, started_at, completed_at
		FROM campaigns
	`
	var args []interface{}
	if instanceID != "" {
		query += ` WHERE instance_id = $1`
		args = append(args, instanceID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar campanhas: %w", err)
	}
	defer rows.Close()

	campaigns := []entity.Campaign{}
	for rows.Next() {
		var c entity.Campaign
		var instID sql.NullString
		if err := rows.Scan(
			&c.ID, &instID, &c.Name, &c.TemplateName, &c.Status, &c.Recipients,
			&c.Sent, &c.Delivered, &c.Read, &c.Failed,
			&c.CreatedAt, &c.ScheduledAt, &c.StartedAt, &c.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao ler campanha: %w", err)
		}
		c.InstanceID = instID.String
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}
