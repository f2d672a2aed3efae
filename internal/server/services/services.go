// Package services contains server-side business logic: credential checks,
// session issuance and the create/list/delete operations of each entity.
package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/google/uuid"
)

// storeErr passes domain sentinels through and turns anything else coming
// out of a repository into common.ErrorUnavailable. The original error stays
// in the chain for logging.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		common.ErrorNotFound,
		common.ErrorConflict,
		common.ErrorValidation,
		common.ErrorUnauthorized,
		common.ErrorUnavailable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", common.ErrorUnavailable, err)
}

// checker accumulates missing and invalid fields in the order they are checked.
type checker struct {
	missing []string
	invalid []string
}

func (c *checker) require(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.missing = append(c.missing, field)
		return false
	}
	return true
}

func (c *checker) requireNumber(field string, n Number) bool {
	if n.Empty() {
		c.missing = append(c.missing, field)
		return false
	}
	return true
}

func (c *checker) fail(field string) {
	c.invalid = append(c.invalid, field)
}

func (c *checker) err() error {
	if len(c.missing) > 0 {
		return common.NewValidationError("missing required fields", c.missing...)
	}
	if len(c.invalid) > 0 {
		return common.NewValidationError("invalid fields", c.invalid...)
	}
	return nil
}

// validEmail accepts a bare address only; display names are rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func newID() string {
	return uuid.NewString()
}

// checkID validates an id submitted for deletion. Ids that cannot exist in
// the store are reported as not found.
func checkID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return common.NewValidationError("missing required fields", "id")
	}
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return nil
}
