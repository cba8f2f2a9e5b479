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

type AlertRepository struct {
	DB *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{DB: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *entity.AccountAlert) error {
	query := `
		INSERT INTO account_alerts (id, instance_id, type, code, message, details, dismissed, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), false, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		alert.ID,
		alert.InstanceID,
		alert.Type,
		alert.Code,
		alert.Message,
		alert.Details,
		alert.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Id com timestamp colidiu (dois eventos no mesmo ms). Ignora.
			log.Printf("⚠️ Alerta %s já existe, ignorando", alert.ID)
			return nil
		}
		return fmt.Errorf("erro ao criar alerta: %w", err)
	}

	return nil
}

func (r *AlertRepository) ListActive(ctx context.Context, instanceID string) ([]entity.AccountAlert, error) {
	query := `
		SELECT id, instance_id, type, code, message, details, dismissed, created_at
		FROM account_alerts
		WHERE dismissed = false
	`
	var args []interface{}
	if instanceID != "" {
		query += ` AND instance_id = $1`
		args = append(args, instanceID)
	}
	query += ` ORDER BY created_at DESC LIMIT 10`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar alertas: %w", err)
	}
	defer rows.Close()

	alerts := []entity.AccountAlert{}
	for rows.Next() {
		var a entity.AccountAlert
		var instID, details sql.NullString
		var code sql.NullInt64
		if err := rows.Scan(&a.ID, &instID, &a.Type, &code, &a.Message, &details, &a.Dismissed, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler alerta: %w", err)
		}
		a.InstanceID = instID.String
		a.Details = details.String
		a.Code = int(code.Int64)
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// Dismiss é idempotente: alerta já dispensado (ou inexistente) não é erro.
func (r *AlertRepository) Dismiss(ctx context.Context, id string) error {
	query := `UPDATE account_alerts SET dismissed = true WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("erro ao dispensar alerta: %w", err)
	}
	return nil
}

func (r *AlertRepository) DismissAll(ctx context.Context, instanceID string) error {
	query := `UPDATE account_alerts SET dismissed = true WHERE dismissed = false`
	var args []interface{}
	if instanceID != "" {
		query += ` AND instance_id = $1`
		args = append(args, instanceID)
	}

	_, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao dispensar alertas: %w", err)
	}
	return nil
}

func (r *AlertRepository) DismissByType(ctx context.Context, instanceID, alertType string) error {
	query := `
		UPDATE account_alerts
		SET dismissed = true
		WHERE type = $1 AND instance_id = $2 AND dismissed = false
	`
	_, err := r.DB.ExecContext(ctx, query, alertType, instanceID)
	if err != nil {
		return fmt.Errorf("erro ao dispensar alertas de %s: %w", alertType, err)
	}
	return nil
}
