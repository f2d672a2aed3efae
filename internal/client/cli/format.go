package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/collectadmin/internal/client/client"
	"github.com/dmitrijs2005/collectadmin/internal/client/services"
	"github.com/dmitrijs2005/collectadmin/internal/common"
)

type column struct {
	title string
	key   string
}

// columns per resource; a dotted key reads a nested object.
var columns = map[client.Resource][]column{
	client.ResourceUsers: {
		{"ID", "id"}, {"NAME", "name"}, {"EMAIL", "email"},
	},
	client.ResourceCompanies: {
		{"ID", "id"}, {"NAME", "name"}, {"EMAIL", "email"}, {"ADDRESS", "address"}, {"PHONE", "phoneNumber"},
	},
	client.ResourceVehicles: {
		{"ID", "id"}, {"NAME", "name"}, {"REGISTRATION", "registrationNumber"}, {"CAPACITY", "capacity"}, {"COMPANY", "company.name"},
	},
	client.ResourceCollectionPoints: {
		{"ID", "id"}, {"NAME", "name"}, {"LAT", "latitude"}, {"LON", "longitude"}, {"CREATED", "createdAt"},
	},
}

func cell(row services.Row, key string) string {
	var v any = map[string]any(row)
	for _, part := range strings.Split(key, ".") {
		m, ok := v.(map[string]any)
		if !ok {
			return ""
		}
		v = m[part]
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// formatListing renders l as an aligned table followed by a provenance line.
func formatListing(l *services.Listing) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	cols := columns[l.Resource]
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))

	for _, row := range l.Rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cell(row, c.key)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	at := l.FetchedAt.Local().Format("2006-01-02 15:04:05")
	if l.Cached {
		fmt.Fprintf(&b, "%d %s (cached at %s, use 'refresh %s' to reload)", len(l.Rows), l.Resource, at, l.Resource)
	} else {
		fmt.Fprintf(&b, "%d %s (fetched %s)", len(l.Rows), l.Resource, at)
	}
	return b.String()
}

// describe turns an error into a message for the operator.
func describe(err error) string {
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error()
	case errors.Is(err, common.ErrorConflict):
		return "Company is still referenced by existing vehicles; delete them first"
	case errors.Is(err, client.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, client.ErrUnauthorized):
		return "Session is no longer valid, please log in again"
	case errors.Is(err, common.ErrorNotFound):
		return "Not found"
	case errors.Is(err, common.ErrorExportDisabled):
		return "Export is disabled on the server"
	case errors.Is(err, client.ErrLocalDataNotAvailable):
		return "Server unavailable and nothing cached"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable"
	case errors.Is(err, client.ErrUnknownResource):
		return "Unknown resource; use users, companies, vehicles or points"
	}
	return "Error: " + err.Error()
}
