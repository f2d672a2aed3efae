package companies

import (
	"context"

	"github.com/dmitrijs2005/collectadmin/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	List(ctx context.Context) ([]models.Company, error)
	// Exists reports whether a company row with id is present and takes a
	// KEY SHARE lock on it so it cannot be deleted before the caller commits.
	Exists(ctx context.Context, id string) (bool, error)
	// LockForDelete locks the company row FOR UPDATE. Missing rows yield
	// common.ErrorNotFound.
	LockForDelete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
