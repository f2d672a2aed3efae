// Package models defines the records persisted in the entity store.
package models

// User is an operator allowed to sign in. PasswordHash never leaves the
// server: it is excluded from JSON and only read by the credential check.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
