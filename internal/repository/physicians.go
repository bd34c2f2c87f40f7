package repository

import (
	"context"
	"time"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) GetAllPhysicians() ([]*domain.Physician, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, last_name, specialty, created_at, version FROM physicians ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	physicians := make([]*domain.Physician, 0)
	for rows.Next() {
		physician := &domain.Physician{}
		dst := []any{&physician.ID, &physician.LastName, &physician.Specialty, &physician.CreatedAt, &physician.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		physicians = append(physicians, physician)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return physicians, nil
}

func (r *Repository) GetPhysicianByID(id int64) (*domain.Physician, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT last_name, specialty, created_at, version FROM physicians WHERE id = $1
	`

	physician := &domain.Physician{
		ID: id,
	}

	dst := []any{&physician.LastName, &physician.Specialty, &physician.CreatedAt, &physician.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return physician, nil
}

func (r *Repository) CreatePhysician(physician *domain.Physician) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO physicians (last_name, specialty)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, physician.LastName, physician.Specialty).Scan(&physician.ID, &physician.CreatedAt, &physician.Version); err != nil {
		return err
	}

	return nil
}
