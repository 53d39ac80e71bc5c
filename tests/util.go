// Package testutil holds the fixtures shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/apps/shared"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/storage/database"
)

// NewConfig returns the settings used by tests; nothing is read from the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:                       "TEST",
		TestMode:                  true,
		AppName:                   "Academia",
		SecretKey:                 "test-secret",
		FrontendBaseURL:           "http://localhost:5173",
		PasswordResetTimeoutDelta: time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        15 * time.Minute,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		Database: core.DatabaseConfig{Engine: "memory"},
		Login:    core.LoginConfig{MaxAttempts: 3, Window: time.Minute},
	}
}

// NewValidator returns a validator with the validations of every package registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	return shared.NewValidator()
}

func NewStore() *database.Store {
	return database.NewMemoryStore()
}

func CreatePerson(t *testing.T, repo person.Repository, name, email string) person.Person {
	p := person.Person{FullName: name}
	if email != "" {
		p.Email = &email
	}
	if err := repo.Create(context.Background(), &p); err != nil {
		t.Fatalf("CreatePerson() failed: %v", err)
	}
	return p
}

// CreateUser stores a user of a new person. The user is inactive when isActive is false.
func CreateUser(
	t *testing.T,
	store *database.Store,
	name, uname, email, pwd, role string,
	isActive bool,
) user.User {
	p := CreatePerson(t, store.Persons, name, email)
	usr := user.User{
		PersonID: p.ID,
		Username: uname,
		Role:     role,
		IsActive: user.Active,
	}
	if !isActive {
		usr.IsActive = user.Inactive
	}
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd))
	}
	if err := store.Users.Create(context.Background(), &usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
