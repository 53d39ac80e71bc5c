package echoapi

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/tests"
)

func userPath(usr user.User) string {
	return "/api/usuarios/" + strconv.FormatInt(usr.ID, 10)
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)
	admin, adminToken := app.admin(t)
	prof := testutil.CreateUser(t, app.store, "Paulo Prof", "paulo", "", testPassword, user.RoleProfessor, true)
	aluno := testutil.CreateUser(t, app.store, "Lia Aluna", "lia", "", testPassword, user.RoleAluno, false)

	page := func(users ...user.User) string {
		return marshal(t, core.NewPage(users, core.PageRequest{Page: 1, Limit: 20}, len(users)))
	}

	app.run(t, []httpTest{
		{name: "auth required", path: "/api/usuarios", wantCode: http.StatusUnauthorized},
		{
			name: "staff required", path: "/api/usuarios", token: app.token(t, prof),
			wantCode: http.StatusForbidden, wantData: marshal(t, httpErr{Error: "permissão negada"}),
		},
		{name: "all by username", path: "/api/usuarios", token: adminToken, wantCode: http.StatusOK, wantData: page(admin, aluno, prof)},
		{name: "search", path: "/api/usuarios?search=PAU", token: adminToken, wantCode: http.StatusOK, wantData: page(prof)},
		{name: "role", path: "/api/usuarios?role=ALUNO", token: adminToken, wantCode: http.StatusOK, wantData: page(aluno)},
		{name: "isActive", path: "/api/usuarios?isActive=N", token: adminToken, wantCode: http.StatusOK, wantData: page(aluno)},
		{name: "ordering", path: "/api/usuarios?ordering=-username", token: adminToken, wantCode: http.StatusOK, wantData: page(prof, aluno, admin)},
		{name: "unknown ordering", path: "/api/usuarios?ordering=senha", token: adminToken, wantCode: http.StatusBadRequest},
		{name: "bad limit", path: "/api/usuarios?limit=abc", token: adminToken, wantCode: http.StatusBadRequest},
	})
}

func Test_userApi_create(t *testing.T) {
	app := setup(t)
	_, adminToken := app.admin(t)
	sec := testutil.CreateUser(t, app.store, "Sara Secretaria", "sara", "", testPassword, user.RoleSecretaria, true)
	p := testutil.CreatePerson(t, app.store.Persons, "Nova Pessoa", "")
	pid := strconv.FormatInt(p.ID, 10)

	app.run(t, []httpTest{
		{
			name: "cannot grant a higher role", method: http.MethodPost, path: "/api/usuarios", token: app.token(t, sec),
			body:     `{"pessoaId": ` + pid + `, "username": "nova", "password": "` + testPassword + `", "role": "ADMIN"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "weak password", method: http.MethodPost, path: "/api/usuarios", token: adminToken,
			body:     `{"pessoaId": ` + pid + `, "username": "nova", "password": "12345678", "role": "ALUNO"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown person", method: http.MethodPost, path: "/api/usuarios", token: adminToken,
			body:     `{"pessoaId": 999, "username": "nova", "password": "` + testPassword + `", "role": "ALUNO"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "created", method: http.MethodPost, path: "/api/usuarios", token: app.token(t, sec),
			body:     `{"pessoaId": ` + pid + `, "username": "Nova", "password": "` + testPassword + `", "role": "SECRETARIA"}`,
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate username", method: http.MethodPost, path: "/api/usuarios", token: adminToken,
			body:     `{"pessoaId": ` + pid + `, "username": "nova", "password": "` + testPassword + `", "role": "ALUNO"}`,
			wantCode: http.StatusConflict,
		},
	})

	usr, err := app.Server.deps.Services.Users.GetByUsername(context.Background(), "nova")
	require.NoError(t, err)
	assert.Equal(t, user.Active, usr.IsActive)
	assert.NoError(t, usr.CheckPassword(testPassword))
}

func Test_userApi_detail(t *testing.T) {
	app := setup(t)
	admin, adminToken := app.admin(t)
	prof := testutil.CreateUser(t, app.store, "Paulo Prof", "paulo", "", testPassword, user.RoleProfessor, true)
	other := testutil.CreateUser(t, app.store, "Olga Prof", "olga", "", testPassword, user.RoleProfessor, true)
	profToken := app.token(t, prof)

	app.run(t, []httpTest{
		{name: "self", path: userPath(prof), token: profToken, wantCode: http.StatusOK, wantData: marshal(t, prof)},
		{name: "others are hidden", path: userPath(other), token: profToken, wantCode: http.StatusNotFound},
		{name: "staff sees all", path: userPath(other), token: adminToken, wantCode: http.StatusOK, wantData: marshal(t, other)},
		{name: "unknown", path: "/api/usuarios/999", token: adminToken, wantCode: http.StatusNotFound},
		{name: "bad id", path: "/api/usuarios/abc", token: adminToken, wantCode: http.StatusNotFound},
		{
			name: "non staff cannot change roles", method: http.MethodPatch, path: userPath(prof), token: profToken,
			body: `{"role": "ADMIN"}`, wantCode: http.StatusForbidden,
		},
		{
			name: "deactivate", method: http.MethodPatch, path: userPath(other), token: adminToken,
			body: `{"isActive": "N"}`, wantCode: http.StatusOK,
		},
		{name: "cannot delete self", method: http.MethodDelete, path: userPath(admin), token: adminToken, wantCode: http.StatusForbidden},
		{name: "non staff cannot delete", method: http.MethodDelete, path: userPath(prof), token: profToken, wantCode: http.StatusForbidden},
		{name: "delete", method: http.MethodDelete, path: userPath(prof), token: adminToken, wantCode: http.StatusNoContent},
		{name: "deleted", path: userPath(prof), token: adminToken, wantCode: http.StatusNotFound},
	})

	usr, err := app.Server.deps.Services.Users.Get(context.Background(), other.ID)
	require.NoError(t, err)
	assert.False(t, usr.Active())
}
