package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/dmitrijs2005/collectadmin/internal/dbx"
	"github.com/dmitrijs2005/collectadmin/internal/server/models"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type VehicleInput struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	Capacity           Number `json:"capacity"`
	CompanyID          string `json:"companyId"`
}

var errUnknownCompany = common.NewValidationError("company not found", "companyId")

type VehicleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewVehicleService(db *sql.DB, m repomanager.RepositoryManager) *VehicleService {
	return &VehicleService{db: db, repomanager: m}
}

func (s *VehicleService) Create(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		ID:                 newID(),
		Name:               strings.TrimSpace(in.Name),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		CompanyID:          strings.TrimSpace(in.CompanyID),
	}

	c := &checker{}
	c.require("name", vehicle.Name)
	c.require("registrationNumber", vehicle.RegistrationNumber)
	if c.requireNumber("capacity", in.Capacity) {
		capacity, ok := in.Capacity.Int()
		if !ok || capacity <= 0 {
			c.fail("capacity")
		}
		vehicle.Capacity = capacity
	}
	if c.require("companyId", vehicle.CompanyID) {
		if _, err := uuid.Parse(vehicle.CompanyID); err != nil {
			c.fail("companyId")
		}
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	var created *models.Vehicle
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		exists, err := s.repomanager.Companies(tx).Exists(ctx, vehicle.CompanyID)
		if err != nil {
			return err
		}
		if !exists {
			return errUnknownCompany
		}

		created, err = s.repomanager.Vehicles(tx).Create(ctx, vehicle)
		if errors.Is(err, common.ErrorNotFound) {
			return errUnknownCompany
		}
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}

	return created, nil
}

// List returns vehicles together with their company's name.
func (s *VehicleService) List(ctx context.Context) ([]models.VehicleWithCompany, error) {
	vehicles, err := s.repomanager.Vehicles(s.db).List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return vehicles, nil
}

func (s *VehicleService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return storeErr(s.repomanager.Vehicles(s.db).Delete(ctx, strings.TrimSpace(id)))
}
