package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/dmitrijs2005/collectadmin/internal/dbx"
	"github.com/dmitrijs2005/collectadmin/internal/server/models"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/repomanager"
	"github.com/sethvargo/go-retry"
)

type CompanyInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}

// deleteBackoff paces re-runs of a delete that lost a serialization race.
var deleteBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewExponential(20*time.Millisecond))
}

type CompanyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCompanyService(db *sql.DB, m repomanager.RepositoryManager) *CompanyService {
	return &CompanyService{db: db, repomanager: m}
}

func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (*models.Company, error) {
	company := &models.Company{
		ID:          newID(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Address:     strings.TrimSpace(in.Address),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}

	c := &checker{}
	c.require("name", company.Name)
	if c.require("email", company.Email) && !validEmail(company.Email) {
		c.fail("email")
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Companies(s.db).Create(ctx, company)
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

func (s *CompanyService) List(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repomanager.Companies(s.db).List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return companies, nil
}

// Delete removes a company that no vehicle references. The row lock, the
// vehicle check and the delete share one serializable transaction, so a
// vehicle inserted concurrently either commits first and blocks the delete
// or fails its own company check. A serialization failure re-runs the
// transaction a couple of times before it is reported as unavailable.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	id = strings.TrimSpace(id)

	err := retry.Do(ctx, deleteBackoff(), func(ctx context.Context) error {
		err := s.deleteTx(ctx, id)
		if dbx.HasCode(err, dbx.CodeSerializationFailure) {
			return retry.RetryableError(err)
		}
		return err
	})

	return storeErr(err)
}

func (s *CompanyService) deleteTx(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, s.db, dbx.Serializable, func(ctx context.Context, tx dbx.DBTX) error {
		companies := s.repomanager.Companies(tx)

		if err := companies.LockForDelete(ctx, id); err != nil {
			return err
		}

		referenced, err := s.repomanager.Vehicles(tx).ExistsForCompany(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return common.ErrorConflict
		}

		return companies.Delete(ctx, id)
	})
}
