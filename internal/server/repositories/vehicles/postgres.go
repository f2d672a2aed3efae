package vehicles

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

func (r *PostgresRepository) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	query :=
		`INSERT INTO vehicles (id, name, registration_number, capacity, company_id)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query, v.ID, v.Name, v.RegistrationNumber, v.Capacity, v.CompanyID)
	if err != nil {
		if dbx.HasCode(err, dbx.CodeForeignKeyViolation) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.VehicleWithCompany, error) {
	query :=
		`SELECT v.id, v.name, v.registration_number, v.capacity, v.company_id, c.name
		 FROM vehicles v
		 JOIN companies c ON c.id = v.company_id
		 ORDER BY v.name, v.id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.VehicleWithCompany, 0)
	for rows.Next() {
		var v models.VehicleWithCompany
		if err := rows.Scan(&v.ID, &v.Name, &v.RegistrationNumber, &v.Capacity, &v.CompanyID, &v.Company.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ExistsForCompany(ctx context.Context, companyID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM vehicles WHERE company_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
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
