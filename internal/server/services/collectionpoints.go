package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/collectadmin/internal/server/models"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/repomanager"
)

type CollectionPointInput struct {
	Name      string `json:"name"`
	Latitude  Number `json:"latitude"`
	Longitude Number `json:"longitude"`
}

type CollectionPointService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCollectionPointService(db *sql.DB, m repomanager.RepositoryManager) *CollectionPointService {
	return &CollectionPointService{db: db, repomanager: m}
}

func (s *CollectionPointService) Create(ctx context.Context, in CollectionPointInput) (*models.CollectionPoint, error) {
	point := &models.CollectionPoint{ID: newID(), Name: strings.TrimSpace(in.Name)}

	c := &checker{}
	c.require("name", point.Name)
	if c.requireNumber("latitude", in.Latitude) {
		lat, ok := in.Latitude.Float()
		if !ok || lat < -90 || lat > 90 {
			c.fail("latitude")
		}
		point.Latitude = lat
	}
	if c.requireNumber("longitude", in.Longitude) {
		lon, ok := in.Longitude.Float()
		if !ok || lon < -180 || lon > 180 {
			c.fail("longitude")
		}
		point.Longitude = lon
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	created, err := s.repomanager.CollectionPoints(s.db).Create(ctx, point)
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

func (s *CollectionPointService) List(ctx context.Context) ([]models.CollectionPoint, error) {
	points, err := s.repomanager.CollectionPoints(s.db).List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return points, nil
}

func (s *CollectionPointService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return storeErr(s.repomanager.CollectionPoints(s.db).Delete(ctx, strings.TrimSpace(id)))
}
