package echoapi

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/services/email"
	"github.com/trezcool/academia/tests"
)

func login(t *testing.T, app testApp, uname, pwd string) user.LoginResponse {
	t.Helper()
	rec := app.do(http.MethodPost, "/api/auth/login", "", marshal(t, user.LoginRequest{Username: uname, Password: pwd}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp user.LoginResponse
	decode(t, rec, &resp)
	return resp
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.store, "Ana Souza", "ana", "ana@test.br", testPassword, user.RoleSecretaria, true)
	testutil.CreateUser(t, app.store, "Beto Alves", "beto", "beto@test.br", testPassword, user.RoleAluno, false)

	resp := login(t, app, " ANA ", testPassword)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(15*60), resp.ExpiresIn)
	assert.Equal(t, "ana", resp.User.Username)
	assert.NotNil(t, resp.User.LastLogin)

	app.run(t, []httpTest{
		{
			name: "wrong password", method: http.MethodPost, path: "/api/auth/login",
			body:     `{"username": "ana", "password": "errada"}`,
			wantCode: http.StatusUnauthorized, wantData: marshal(t, httpErr{Error: user.ErrAuthenticationFailed.Error()}),
		},
		{
			name: "unknown user", method: http.MethodPost, path: "/api/auth/login",
			body:     `{"username": "ninguem", "password": "errada"}`,
			wantCode: http.StatusUnauthorized, wantData: marshal(t, httpErr{Error: user.ErrAuthenticationFailed.Error()}),
		},
		{
			name: "deactivated", method: http.MethodPost, path: "/api/auth/login",
			body:     `{"username": "beto", "password": "` + testPassword + `"}`,
			wantCode: http.StatusForbidden, wantData: marshal(t, httpErr{Error: user.ErrAccountDeactivated.Error()}),
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/api/auth/login",
			body: `{}`, wantCode: http.StatusBadRequest,
		},
	})
}

func Test_authApi_loginThrottled(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.store, "Ana Souza", "ana", "ana@test.br", testPassword, user.RoleSecretaria, true)

	body := `{"username": "ana", "password": "errada"}`
	for i := int64(0); i < app.conf.Login.MaxAttempts; i++ {
		rec := app.do(http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := app.do(http.MethodPost, "/api/auth/login", "", `{"username": "ana", "password": "`+testPassword+`"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, marshal(t, httpErr{Error: user.ErrTooManyAttempts.Error()}), rec.Body.String())
}

func Test_authApi_refreshAndLogout(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.store, "Ana Souza", "ana", "ana@test.br", testPassword, user.RoleSecretaria, true)
	first := login(t, app, "ana", testPassword)

	rec := app.do(http.MethodPost, "/api/auth/refresh", "", marshal(t, user.RefreshRequest{RefreshToken: first.RefreshToken}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var second user.LoginResponse
	decode(t, rec, &second)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the rotated token is revoked
	rec = app.do(http.MethodPost, "/api/auth/refresh", "", marshal(t, user.RefreshRequest{RefreshToken: first.RefreshToken}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/api/auth/logout", second.AccessToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(http.MethodPost, "/api/auth/refresh", "", marshal(t, user.RefreshRequest{RefreshToken: second.RefreshToken}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/api/auth/refresh", "", `{"refreshToken": "not-a-token"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_authApi_me(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.store, "Ana Souza", "ana", "ana@test.br", testPassword, user.RoleProfessor, true)
	inactive := testutil.CreateUser(t, app.store, "Beto Alves", "beto", "beto@test.br", testPassword, user.RoleAluno, false)

	app.run(t, []httpTest{
		{
			name: "auth required", path: "/api/auth/me",
			wantCode: http.StatusUnauthorized, wantData: marshal(t, httpErr{Error: "usuário não autenticado"}),
		},
		{name: "invalid token", path: "/api/auth/me", token: "abc.def.ghi", wantCode: http.StatusUnauthorized},
		{name: "me", path: "/api/auth/me", token: app.token(t, usr), wantCode: http.StatusOK, wantData: marshal(t, usr)},
		{name: "deactivated", path: "/api/auth/me", token: app.token(t, inactive), wantCode: http.StatusForbidden},
	})
}

var resetTokenRegex = regexp.MustCompile(`token=(\S+)`)

func Test_authApi_passwordReset(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.store, "Ana Souza", "ana", "ana@test.br", testPassword, user.RoleSecretaria, true)

	// unknown emails get the same answer
	for _, email := range []string{"ninguem@test.br", "ANA@test.br"} {
		rec := app.do(http.MethodPost, "/api/auth/forgot-password", "", `{"email": "`+email+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	sent := emailsvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@test.br", sent[0].To[0].Address)
	match := resetTokenRegex.FindStringSubmatch(sent[0].TextContent)
	require.Len(t, match, 2)
	token := match[1]

	newPwd := "N0va-s3nha!!"
	app.run(t, []httpTest{
		{
			name: "confirmation mismatch", method: http.MethodPost, path: "/api/auth/reset-password",
			body: marshal(t, user.ResetPasswordRequest{Token: token, Password: newPwd, PasswordConfirm: "outra"}), wantCode: http.StatusBadRequest,
		},
		{
			name: "bad token", method: http.MethodPost, path: "/api/auth/reset-password",
			body: marshal(t, user.ResetPasswordRequest{Token: "x-y", Password: newPwd, PasswordConfirm: newPwd}), wantCode: http.StatusBadRequest,
		},
		{
			name: "reset", method: http.MethodPost, path: "/api/auth/reset-password",
			body: marshal(t, user.ResetPasswordRequest{Token: token, Password: newPwd, PasswordConfirm: newPwd}), wantCode: http.StatusOK,
		},
		{
			name: "token is single use", method: http.MethodPost, path: "/api/auth/reset-password",
			body: marshal(t, user.ResetPasswordRequest{Token: token, Password: newPwd, PasswordConfirm: newPwd}), wantCode: http.StatusBadRequest,
		},
	})

	login(t, app, "ana", newPwd)
}

func Test_authApi_changePassword(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.store, "Ana Souza", "ana", "ana@test.br", testPassword, user.RoleSecretaria, true)
	token := app.token(t, usr)
	newPwd := "N0va-s3nha!!"

	app.run(t, []httpTest{
		{
			name: "wrong current password", method: http.MethodPost, path: "/api/auth/change-password", token: token,
			body:     marshal(t, user.ChangePasswordRequest{CurrentPassword: "errada", Password: newPwd, PasswordConfirm: newPwd}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "changed", method: http.MethodPost, path: "/api/auth/change-password", token: token,
			body:     marshal(t, user.ChangePasswordRequest{CurrentPassword: testPassword, Password: newPwd, PasswordConfirm: newPwd}),
			wantCode: http.StatusNoContent,
		},
	})

	login(t, app, "ana", newPwd)
}
