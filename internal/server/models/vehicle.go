package models

// Vehicle belongs to exactly one company.
type Vehicle struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	Capacity           int    `json:"capacity"`
	CompanyID          string `json:"companyId"`
}

// VehicleWithCompany is a vehicle joined with its owning company's name,
// as returned by listings.
type VehicleWithCompany struct {
	Vehicle
	Company CompanyRef `json:"company"`
}

// CompanyRef is the company projection embedded in vehicle listings.
type CompanyRef struct {
	Name string `json:"name"`
}
