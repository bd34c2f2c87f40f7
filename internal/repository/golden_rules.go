package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

// 金规则整体存为一行 JSONB 文档，整体读取、整体保存，后写覆盖

func (r *Repository) GetGoldenRules() (*domain.GoldenRules, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT doc FROM golden_rules WHERE id = 1`

	var raw []byte
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		return nil, err
	}

	doc := &domain.GoldenRules{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *Repository) SaveGoldenRules(doc *domain.GoldenRules) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO golden_rules (id, doc, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`
	if _, err := r.dbpool.ExecContext(ctx, query, raw); err != nil {
		return err
	}

	return nil
}
