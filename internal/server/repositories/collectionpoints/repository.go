package collectionpoints

import (
	"context"

	"github.com/dmitrijs2005/collectadmin/internal/server/models"
)

type Repository interface {
	// Create inserts the point and fills CreatedAt from the store clock.
	Create(ctx context.Context, point *models.CollectionPoint) (*models.CollectionPoint, error)
	List(ctx context.Context) ([]models.CollectionPoint, error)
	Delete(ctx context.Context, id string) error
}
