package collectionpoints

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/dmitrijs2005/collectadmin/internal/dbx"
	"github.com/dmitrijs2005/collectadmin/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.CollectionPoint) (*models.CollectionPoint, error) {
	query :=
		`INSERT INTO collection_points (id, name, latitude, longitude)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Latitude, p.Longitude).Scan(&p.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.CollectionPoint, error) {
	query :=
		`SELECT id, name, latitude, longitude, created_at
		 FROM collection_points
		 ORDER BY created_at DESC, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.CollectionPoint, 0)
	for rows.Next() {
		var p models.CollectionPoint
		if err := rows.Scan(&p.ID, &p.Name, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM collection_points WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
