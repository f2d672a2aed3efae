package models

// Company owns vehicles. It cannot be deleted while any vehicle references it.
type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}
