package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) UpdateStatusByPhone(ctx context.Context, instanceID, phone, status string) error {
	query := `
		UPDATE contacts
		SET status = $1, updated_at = NOW()
		WHERE instance_id = $2 AND phone = $3
	`
	_, err := r.DB.ExecContext(ctx, query, status, instanceID, phone)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status do contato: %w", err)
	}
	return nil
}

// TouchLastActive cria o contato se não existe e atualiza last_active.
// O nome só sobrescreve quando veio preenchido do perfil do WhatsApp.
func (r *ContactRepository) TouchLastActive(ctx context.Context, instanceID, phone, name string) error {
	query := `
		INSERT INTO contacts (id, instance_id, phone, name, status, last_active, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), 'active', NOW(), NOW())
		ON CONFLICT (instance_id, phone) DO UPDATE
		SET last_active = NOW(),
		    name = COALESCE(NULLIF(EXCLUDED.name, ''), contacts.name)
	`
	_, err := r.DB.ExecContext(ctx, query, uuid.New().String(), instanceID, phone, name)
	if err != nil {
		return fmt.Errorf("erro ao atualizar contato: %w", err)
	}
	return nil
}
