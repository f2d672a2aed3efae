package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/collectadmin/internal/dbx"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/collectionpoints"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/companies"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/users"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/vehicles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Companies(db dbx.DBTX) companies.Repository
	Vehicles(db dbx.DBTX) vehicles.Repository
	CollectionPoints(db dbx.DBTX) collectionpoints.Repository
}
