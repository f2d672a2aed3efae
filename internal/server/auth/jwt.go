// Package auth issues and validates stateless session tokens and hashes
// user passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session subject (user id) and the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type Status int

const (
	StatusAbsent Status = iota
	StatusMalformed
	StatusExpired
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// SessionState is the outcome of validating a session token. Only a Valid
// state carries the subject.
type SessionState struct {
	Status Status
	UserID string
	Email  string
}

// Authenticated reports whether the state represents a usable session.
func (s SessionState) Authenticated() bool {
	return s.Status == StatusValid
}

var timeNow = time.Now

// IssueSession mints an HS256 token bound to userID. It returns the signed
// token and its expiry.
func IssueSession(userID, email string, secretKey []byte, validity time.Duration) (string, time.Time, error) {
	now := timeNow()
	expiresAt := now.Add(validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateSession verifies signature and expiry of tokenString.
func ValidateSession(tokenString string, secretKey []byte) SessionState {
	if tokenString == "" {
		return SessionState{Status: StatusAbsent}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionState{Status: StatusExpired}
		}
		return SessionState{Status: StatusMalformed}
	}

	if !token.Valid || claims.Subject == "" {
		return SessionState{Status: StatusMalformed}
	}

	return SessionState{Status: StatusValid, UserID: claims.Subject, Email: claims.Email}
}

// Err converts a non-valid state into the matching sentinel error.
func (s SessionState) Err() error {
	switch s.Status {
	case StatusValid:
		return nil
	case StatusExpired:
		return common.ErrTokenExpired
	case StatusMalformed:
		return common.ErrInvalidToken
	default:
		return common.ErrorUnauthorized
	}
}
