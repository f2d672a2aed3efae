package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/dmitrijs2005/collectadmin/internal/server/auth"
	"github.com/dmitrijs2005/collectadmin/internal/server/config"
	"github.com/dmitrijs2005/collectadmin/internal/server/models"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/repomanager"
)

type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// UserService handles operator accounts: creation, listing, deletion,
// credential verification and session issuance.
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	secretKey       []byte
	sessionValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		secretKey:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("collectadmin-unknown-subject")
	return h
})

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	c := &checker{}
	c.require("name", in.Name)
	if c.require("email", in.Email) && !validEmail(in.Email) {
		c.fail("email")
	}
	c.require("password", in.Password)
	if err := c.err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{ID: newID(), Name: in.Name, Email: in.Email, PasswordHash: hash}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("email already registered", "email")
		}
		return nil, storeErr(err)
	}

	created.PasswordHash = ""
	return created, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return storeErr(s.repomanager.Users(s.db).Delete(ctx, strings.TrimSpace(id)))
}

// Verify checks an email/password pair. Unknown email and wrong password
// both yield common.ErrorUnauthorized; store failures yield
// common.ErrorUnavailable.
func (s *UserService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = auth.ComparePassword(dummyHash(), password)
			return nil, common.ErrorUnauthorized
		}
		return nil, storeErr(err)
	}

	ok, err := auth.ComparePassword(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, common.ErrorUnauthorized
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and mints a session for the user.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := auth.IssueSession(user.ID, user.Email, s.secretKey, s.sessionValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate validates a session token presented by a client.
func (s *UserService) Authenticate(token string) auth.SessionState {
	return auth.ValidateSession(token, s.secretKey)
}

// EnsureBootstrapUser creates the configured first operator unless a user
// with that email already exists. It reports whether a user was created.
func (s *UserService) EnsureBootstrapUser(ctx context.Context, in UserInput) (bool, error) {
	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, storeErr(err)
	}

	if _, err := s.Create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}
