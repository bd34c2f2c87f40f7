package repository

import (
	"context"
	"time"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) CreateAssignment(assignment *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO assignments (physician_id, institution_id, date, start_time, end_time, group_tag)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	params := []any{assignment.PhysicianID, assignment.InstitutionID, assignment.Date, assignment.StartTime, assignment.EndTime, assignment.GroupTag}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllAssignments() ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, physician_id, institution_id, date, start_time, end_time, group_tag, created_at, version
		FROM assignments
		ORDER BY date, start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		assignment := &domain.Assignment{}
		dst := []any{&assignment.ID, &assignment.PhysicianID, &assignment.InstitutionID, &assignment.Date, &assignment.StartTime, &assignment.EndTime, &assignment.GroupTag, &assignment.CreatedAt, &assignment.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetAssignmentsByPhysician(physicianID int64) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, physician_id, institution_id, date, start_time, end_time, group_tag, created_at, version
		FROM assignments
		WHERE physician_id = $1
		ORDER BY date, start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, physicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		assignment := &domain.Assignment{}
		dst := []any{&assignment.ID, &assignment.PhysicianID, &assignment.InstitutionID, &assignment.Date, &assignment.StartTime, &assignment.EndTime, &assignment.GroupTag, &assignment.CreatedAt, &assignment.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
