package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/client/client"
	"github.com/dmitrijs2005/collectadmin/internal/client/services"
	"github.com/stretchr/testify/assert"
)

func TestCell(t *testing.T) {
	row := services.Row{
		"id":       "v1",
		"capacity": json.Number("12"),
		"company":  map[string]any{"name": "Acme"},
	}

	assert.Equal(t, "v1", cell(row, "id"))
	assert.Equal(t, "12", cell(row, "capacity"))
	assert.Equal(t, "Acme", cell(row, "company.name"))
	assert.Equal(t, "", cell(row, "company.address"))
	assert.Equal(t, "", cell(row, "id.deeper"))
	assert.Equal(t, "", cell(row, "missing"))
}

func TestFormatListing(t *testing.T) {
	l := &services.Listing{
		Resource: client.ResourceVehicles,
		Rows: []services.Row{
			{"id": "v1", "name": "Truck", "registrationNumber": "AB-1", "capacity": json.Number("12"), "company": map[string]any{"name": "Acme"}},
		},
		FetchedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
	}

	got := formatListing(l)
	lines := strings.Split(got, "\n")

	assert.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "NAME", "REGISTRATION", "CAPACITY", "COMPANY"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"v1", "Truck", "AB-1", "12", "Acme"}, strings.Fields(lines[1]))
	assert.Equal(t, "1 vehicles (fetched 2024-01-02 03:04:05)", lines[2])

	l.Cached = true
	assert.Contains(t, formatListing(l), "cached at 2024-01-02 03:04:05, use 'refresh vehicles' to reload")
}

func TestFormatListing_Empty(t *testing.T) {
	got := formatListing(&services.Listing{Resource: client.ResourceUsers, FetchedAt: time.Now()})
	lines := strings.Split(got, "\n")

	assert.Equal(t, []string{"ID", "NAME", "EMAIL"}, strings.Fields(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "0 users"))
}
