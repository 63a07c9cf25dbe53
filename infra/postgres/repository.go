package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/stylehaus/closet/domain"
)

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(host, database, user, password, port string) *PgRepository {
	db := sqlx.MustConnect("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, database,
	))

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]interface{} {
	stats := r.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

func (r *PgRepository) CreateItem(ctx context.Context, item *domain.Item) (domain.Item, error) {
	var i domain.Item
	query := `
		INSERT INTO items (
			owner_id, category, original_url, processed_url
		) VALUES (
			:owner_id, :category, :original_url, :processed_url
		) RETURNING *`

	rows, err := r.db.NamedQueryContext(ctx, query, item)
	if err != nil {
		return i, err
	}
	defer rows.Close()

	if rows.Next() {
		err = rows.StructScan(&i)
	}
	return i, err
}

func (r *PgRepository) GetOwnerItems(ctx context.Context, ownerID, category string, limit, offset int) ([]domain.Item, error) {
	items := make([]domain.Item, 0)

	if category != "" {
		query := `SELECT * FROM items WHERE owner_id = $1 AND category = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		if err := r.db.SelectContext(ctx, &items, query, ownerID, category, limit, offset); err != nil {
			return nil, err
		}
		return items, nil
	}

	query := `SELECT * FROM items WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, ownerID, limit, offset); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PgRepository) CountOwnerItems(ctx context.Context, ownerID, category string) (int, error) {
	var count int

	if category != "" {
		query := `SELECT COUNT(*) FROM items WHERE owner_id = $1 AND category = $2`
		if err := r.db.GetContext(ctx, &count, query, ownerID, category); err != nil {
			return 0, err
		}
		return count, nil
	}

	query := `SELECT COUNT(*) FROM items WHERE owner_id = $1`
	if err := r.db.GetContext(ctx, &count, query, ownerID); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PgRepository) GetOwnerItem(ctx context.Context, id, ownerID string) (domain.Item, error) {
	var i domain.Item
	query := `SELECT * FROM items WHERE id = $1 AND owner_id = $2`

	err := r.db.GetContext(ctx, &i, query, id, ownerID)
	if err != nil {
		return i, err
	}

	return i, nil
}

func (r *PgRepository) GetOwnerItemsByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(ids))
	query := `SELECT * FROM items WHERE owner_id = $1 AND id = ANY($2)`

	err := r.db.SelectContext(ctx, &items, query, ownerID, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PgRepository) DeleteItem(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM items WHERE id = $1 AND owner_id = $2`

	_, err := r.db.ExecContext(ctx, query, id, ownerID)

	return err
}

func (r *PgRepository) CreateVisualization(ctx context.Context, v *domain.Visualization) (domain.Visualization, error) {
	var saved domain.Visualization
	query := `
		INSERT INTO visualizations (
			owner_id, item_ids, image_url, prompt
		) VALUES (
			:owner_id, :item_ids, :image_url, :prompt
		) RETURNING *`

	rows, err := r.db.NamedQueryContext(ctx, query, v)
	if err != nil {
		return saved, err
	}
	defer rows.Close()

	if rows.Next() {
		err = rows.StructScan(&saved)
	}
	return saved, err
}

func (r *PgRepository) GetOwnerVisualizations(ctx context.Context, ownerID string, limit, offset int) ([]domain.Visualization, error) {
	visualizations := make([]domain.Visualization, 0)
	query := `SELECT * FROM visualizations WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &visualizations, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return visualizations, nil
}

func (r *PgRepository) CountOwnerVisualizations(ctx context.Context, ownerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM visualizations WHERE owner_id = $1`

	err := r.db.GetContext(ctx, &count, query, ownerID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PgRepository) GetOwnerVisualization(ctx context.Context, id, ownerID string) (domain.Visualization, error) {
	var v domain.Visualization
	query := `SELECT * FROM visualizations WHERE id = $1 AND owner_id = $2`

	err := r.db.GetContext(ctx, &v, query, id, ownerID)
	if err != nil {
		return v, err
	}

	return v, nil
}

func (r *PgRepository) DeleteVisualization(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM visualizations WHERE id = $1 AND owner_id = $2`

	_, err := r.db.ExecContext(ctx, query, id, ownerID)

	return err
}
