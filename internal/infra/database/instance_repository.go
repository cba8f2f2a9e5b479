package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartzap/smartzap-events/internal/entity"
)

type InstanceRepository struct {
	DB *sql.DB
}

func NewInstanceRepository(db *sql.DB) *InstanceRepository {
	return &InstanceRepository{DB: db}
}

const instanceColumns = `id, name, phone_number_id, business_account_id, access_token, status, client_name, created_at`

func (r *InstanceRepository) FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entity.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM instances WHERE phone_number_id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, phoneNumberID))
}

func (r *InstanceRepository) FindByID(ctx context.Context, id string) (*entity.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM instances WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *InstanceRepository) List(ctx context.Context) ([]entity.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM instances ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar instâncias: %w", err)
	}
	defer rows.Close()

	instances := []entity.Instance{}
	for rows.Next() {
		inst, err := scanInstance(rows.Scan)
		if err != nil {
			return nil, err
		}
		instances = append(instances, *inst)
	}

	return instances, rows.Err()
}

func (r *InstanceRepository) scanOne(row *sql.Row) (*entity.Instance, error) {
	inst, err := scanInstance(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return inst, err
}

func scanInstance(scan func(dest ...interface{}) error) (*entity.Instance, error) {
	var inst entity.Instance
	var businessAccountID, clientName sql.NullString

	err := scan(
		&inst.ID,
		&inst.Name,
		&inst.PhoneNumberID,
		&businessAccountID,
		&inst.AccessToken,
		&inst.Status,
		&clientName,
		&inst.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("erro ao ler instância: %w", err)
	}

	inst.BusinessAccountID = businessAccountID.String
	inst.ClientName = clientName.String
	return &inst, nil
}
