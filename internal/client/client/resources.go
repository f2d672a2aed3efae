package client

import "strings"

// Resource names a server collection. The value doubles as the URL segment
// under /api and as the export resource name.
type Resource string

const (
	ResourceUsers            Resource = "users"
	ResourceCompanies        Resource = "companies"
	ResourceVehicles         Resource = "vehicles"
	ResourceCollectionPoints Resource = "collection-point"
)

// Resources lists every resource in display order.
var Resources = []Resource{ResourceUsers, ResourceCompanies, ResourceVehicles, ResourceCollectionPoints}

// ParseResource accepts the canonical names plus a few short aliases.
func ParseResource(s string) (Resource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "users", "user":
		return ResourceUsers, nil
	case "companies", "company":
		return ResourceCompanies, nil
	case "vehicles", "vehicle":
		return ResourceVehicles, nil
	case "collection-point", "collection-points", "points", "point":
		return ResourceCollectionPoints, nil
	}
	return "", ErrUnknownResource
}

func (r Resource) path() string {
	return "/api/" + string(r)
}
