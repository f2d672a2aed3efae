package httpapi

import (
	"context"

	"github.com/dmitrijs2005/collectadmin/internal/server/auth"
	"github.com/dmitrijs2005/collectadmin/internal/server/models"
	"github.com/dmitrijs2005/collectadmin/internal/server/services"
)

// CRUD is the create/list/delete contract every resource exposes.
type CRUD[In any, Out any, Row any] interface {
	Create(ctx context.Context, in In) (*Out, error)
	List(ctx context.Context) ([]Row, error)
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	CRUD[services.UserInput, models.User, models.User]
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(token string) auth.SessionState
}

type CompanyService interface {
	CRUD[services.CompanyInput, models.Company, models.Company]
}

type VehicleService interface {
	CRUD[services.VehicleInput, models.Vehicle, models.VehicleWithCompany]
}

type CollectionPointService interface {
	CRUD[services.CollectionPointInput, models.CollectionPoint, models.CollectionPoint]
}

type Exporter interface {
	Export(ctx context.Context, resource string) (*services.ExportResult, error)
}
