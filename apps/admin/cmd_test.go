package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
	emailsvc "github.com/trezcool/academia/services/email"
	"github.com/trezcool/academia/services/ratelimit"
	"github.com/trezcool/academia/storage/database"
	"github.com/trezcool/academia/tests"
)

const testPassword = "s3nha-F0rte!"

func setup(t *testing.T) (*commandLine, *database.Store) {
	t.Helper()
	conf := testutil.NewConfig()
	store := testutil.NewStore()
	validate, _ := testutil.NewValidator()

	return &commandLine{
		usrSvc: user.NewService(
			store.Users,
			store.Persons,
			emailsvc.NewConsoleServiceMock(conf),
			ratelimit.NewMemoryLimiter(),
			conf,
		),
		validate: validate,
	}, store
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
	wantErrAs  interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.ErrorIs(t, err, tt.wantErr)
	case tt.wantErrAs != nil:
		assert.ErrorAs(t, err, tt.wantErrAs)
	case tt.wantErrStr != "":
		assert.EqualError(t, err, tt.wantErrStr)
	default:
		assert.NoError(t, err)
	}
}

func mockPassword(pwd string) {
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	t.Run("memory engine", func(t *testing.T) {
		assert.ErrorIs(t, cli.run([]string{"admin", "migrate", "up"}), errNoSQLDatabase)
	})

	cli.db = new(sql.DB)
	runMigrationsFunc = func(_ context.Context, command string, _ *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}
	defer func() { runMigrationsFunc = database.RunMigrations }()

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_sala", "sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, store := setup(t)
	ctx := context.Background()
	p := testutil.CreatePerson(t, store.Persons, "Maria Souza", "maria@test.br")
	existing := testutil.CreateUser(t, store, "Ana Lima", "ana", "ana@test.br", testPassword, user.RoleAluno, false)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "maria", "-pessoa", strconv.FormatInt(p.ID, 10)}, wantErr: errHelp},
		{name: "weak password", args: []string{"adduser", "-username", "maria", "-pessoa", strconv.FormatInt(p.ID, 10)}, pwd: "123", wantErrAs: new(validator.ValidationErrors)},
		{name: "unknown person", args: []string{"adduser", "-username", "maria", "-pessoa", "999"}, pwd: testPassword, wantErrAs: new(*core.ValidationError)},
		{name: "created", args: []string{"adduser", "-username", "maria", "-pessoa", strconv.FormatInt(p.ID, 10)}, pwd: testPassword},
		{name: "existing user promoted", args: []string{"adduser", "-username", "ana", "-role", user.RoleSecretaria}, pwd: "0utra-S3nha!"},
	}
	for _, tt := range tests {
		mockPassword(tt.pwd)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	created, err := cli.usrSvc.GetByUsername(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, created.Role)
	assert.Equal(t, p.ID, created.PersonID)
	assert.True(t, created.Active())
	assert.NoError(t, created.CheckPassword(testPassword))

	promoted, err := cli.usrSvc.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleSecretaria, promoted.Role)
	assert.True(t, promoted.Active())
	assert.NoError(t, promoted.CheckPassword("0utra-S3nha!"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, store := setup(t)
	usr := testutil.CreateUser(t, store, "Ana Lima", "ana", "ana@test.br", testPassword, user.RoleAluno, true)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, pwd: "0utra-S3nha!", wantErr: core.ErrNotFound},
		{name: "weak password", args: []string{"resetpassword", "-username", "ana"}, pwd: "ana", wantErrAs: new(validator.ValidationErrors)},
		{name: "reset", args: []string{"resetpassword", "-username", "ANA"}, pwd: "0utra-S3nha!"},
	}
	for _, tt := range tests {
		mockPassword(tt.pwd)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	refreshed, err := cli.usrSvc.Get(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("0utra-S3nha!"))
}
