package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionPointCreate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewCollectionPointService(db, rm)

	p, err := s.Create(context.Background(), CollectionPointInput{
		Name: "Ecoponto", Latitude: NumberOf("-27.09"), Longitude: NumberOf("-52.66"),
	})
	require.NoError(t, err)
	assert.Equal(t, -27.09, p.Latitude)
	assert.Equal(t, -52.66, p.Longitude)
	assert.Equal(t, rm.p.now, p.CreatedAt)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Delete(context.Background(), p.ID))
	assert.ErrorIs(t, s.Delete(context.Background(), p.ID), common.ErrorNotFound)
}

func TestCollectionPointCreate_Boundaries(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewCollectionPointService(db, newFakeRepoManager())

	_, err := s.Create(context.Background(), CollectionPointInput{Name: "N", Latitude: NumberOf("90"), Longitude: NumberOf("-180")})
	assert.NoError(t, err)

	tests := []struct {
		name   string
		in     CollectionPointInput
		fields []string
	}{
		{"missing", CollectionPointInput{}, []string{"name", "latitude", "longitude"}},
		{"latitude too high", CollectionPointInput{Name: "N", Latitude: NumberOf("90.01"), Longitude: NumberOf("0")}, []string{"latitude"}},
		{"longitude too low", CollectionPointInput{Name: "N", Latitude: NumberOf("0"), Longitude: NumberOf("-180.5")}, []string{"longitude"}},
		{"not numbers", CollectionPointInput{Name: "N", Latitude: NumberOf("north"), Longitude: NumberOf("NaN")}, []string{"latitude", "longitude"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tt.in)
			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.fields, ve.Fields)
		})
	}
}

func TestCollectionPointCreate_StoreError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.p.createErr = errBoom{}
	s := NewCollectionPointService(db, rm)

	_, err := s.Create(context.Background(), CollectionPointInput{Name: "N", Latitude: NumberOf("1"), Longitude: NumberOf("1")})
	assert.ErrorIs(t, err, common.ErrorUnavailable)
}
