package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/dmitrijs2005/collectadmin/internal/dbx"
	"github.com/dmitrijs2005/collectadmin/internal/server/config"
	"github.com/dmitrijs2005/collectadmin/internal/server/models"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/collectionpoints"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/companies"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/users"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/vehicles"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", SessionValidityDuration: time.Hour}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- fake repositories ---

type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	createErr error
	getErr    error
	listErr   error
	deleteErr error
	created   []*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	stored := *u
	f.byEmail[u.Email] = &stored
	f.created = append(f.created, &stored)
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.User, 0, len(f.created))
	for _, u := range f.created {
		out = append(out, models.User{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeCompaniesRepo struct {
	rows       map[string]models.Company
	createErr  error
	existsErr  error
	lockErr    error
	deleteErr  error
	deleteErrs []error
	locked     []string
}

func newFakeCompaniesRepo() *fakeCompaniesRepo {
	return &fakeCompaniesRepo{rows: map[string]models.Company{}}
}

func (f *fakeCompaniesRepo) Create(ctx context.Context, c *models.Company) (*models.Company, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows[c.ID] = *c
	return c, nil
}

func (f *fakeCompaniesRepo) List(ctx context.Context) ([]models.Company, error) {
	out := make([]models.Company, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCompaniesRepo) Exists(ctx context.Context, id string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeCompaniesRepo) LockForDelete(ctx context.Context, id string) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	f.locked = append(f.locked, id)
	return nil
}

func (f *fakeCompaniesRepo) Delete(ctx context.Context, id string) error {
	if len(f.deleteErrs) > 0 {
		err := f.deleteErrs[0]
		f.deleteErrs = f.deleteErrs[1:]
		return err
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeVehiclesRepo struct {
	companies *fakeCompaniesRepo
	rows      map[string]models.Vehicle
	createErr error
	existsErr error
}

func newFakeVehiclesRepo(c *fakeCompaniesRepo) *fakeVehiclesRepo {
	return &fakeVehiclesRepo{companies: c, rows: map[string]models.Vehicle{}}
}

func (f *fakeVehiclesRepo) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.companies.rows[v.CompanyID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.rows[v.ID] = *v
	return v, nil
}

func (f *fakeVehiclesRepo) List(ctx context.Context) ([]models.VehicleWithCompany, error) {
	out := make([]models.VehicleWithCompany, 0, len(f.rows))
	for _, v := range f.rows {
		out = append(out, models.VehicleWithCompany{
			Vehicle: v,
			Company: models.CompanyRef{Name: f.companies.rows[v.CompanyID].Name},
		})
	}
	return out, nil
}

func (f *fakeVehiclesRepo) ExistsForCompany(ctx context.Context, companyID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, v := range f.rows {
		if v.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVehiclesRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakePointsRepo struct {
	rows      []models.CollectionPoint
	createErr error
	now       time.Time
}

func (f *fakePointsRepo) Create(ctx context.Context, p *models.CollectionPoint) (*models.CollectionPoint, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.CreatedAt = f.now
	f.rows = append(f.rows, *p)
	return p, nil
}

func (f *fakePointsRepo) List(ctx context.Context) ([]models.CollectionPoint, error) {
	return append([]models.CollectionPoint{}, f.rows...), nil
}

func (f *fakePointsRepo) Delete(ctx context.Context, id string) error {
	for i, p := range f.rows {
		if p.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- fake manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCompaniesRepo
	v *fakeVehiclesRepo
	p *fakePointsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	c := newFakeCompaniesRepo()
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		c: c,
		v: newFakeVehiclesRepo(c),
		p: &fakePointsRepo{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Companies(db dbx.DBTX) companies.Repository   { return m.c }
func (m *fakeRepoManager) Vehicles(db dbx.DBTX) vehicles.Repository     { return m.v }
func (m *fakeRepoManager) CollectionPoints(db dbx.DBTX) collectionpoints.Repository {
	return m.p
}
