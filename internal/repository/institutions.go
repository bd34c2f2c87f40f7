package repository

import (
	"context"
	"time"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) GetAllInstitutions() ([]*domain.Institution, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, abbreviation, city, category, created_at, version FROM institutions ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	institutions := make([]*domain.Institution, 0)
	for rows.Next() {
		institution := &domain.Institution{}
		dst := []any{&institution.ID, &institution.Name, &institution.Abbreviation, &institution.City, &institution.Category, &institution.CreatedAt, &institution.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		institutions = append(institutions, institution)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return institutions, nil
}

func (r *Repository) GetInstitutionByID(id int64) (*domain.Institution, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, abbreviation, city, category, created_at, version FROM institutions WHERE id = $1
	`

	institution := &domain.Institution{
		ID: id,
	}

	dst := []any{&institution.Name, &institution.Abbreviation, &institution.City, &institution.Category, &institution.CreatedAt, &institution.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return institution, nil
}

func (r *Repository) CreateInstitution(institution *domain.Institution) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO institutions (name, abbreviation, city, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	params := []any{institution.Name, institution.Abbreviation, institution.City, institution.Category}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&institution.ID, &institution.CreatedAt, &institution.Version); err != nil {
		return err
	}

	return nil
}
