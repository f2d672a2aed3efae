package vehicles

import (
	"context"

	"github.com/dmitrijs2005/collectadmin/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	// List returns every vehicle joined with its company name.
	List(ctx context.Context) ([]models.VehicleWithCompany, error)
	ExistsForCompany(ctx context.Context, companyID string) (bool, error)
	Delete(ctx context.Context, id string) error
}
