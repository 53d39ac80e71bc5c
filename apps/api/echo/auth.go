package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
	tokenType       = "Bearer"
)

// Claims is the JWT payload: {sub, role, iat, exp}.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

func newJWTMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	})
}

func NewUserClaims(usr user.User, conf *core.Config) *Claims {
	now := core.NowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.FormatInt(usr.ID, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
		},
		Role: usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	id, err := claims.UserID()
	if err != nil {
		return user.User{}, errUnauthorized
	}
	usr, err := svc.Get(ctx.Request().Context(), id)
	if err != nil {
		if core.IsNotFound(err) {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	if !usr.Active() {
		return user.User{}, echo.NewHTTPError(http.StatusForbidden, user.ErrAccountDeactivated.Error())
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

type authApi struct {
	svc  *user.Service
	deps ServerDeps
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{svc: deps.Services.Users, deps: deps}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/refresh", api.refresh)
	ag.POST("/forgot-password", api.forgotPassword)
	ag.POST("/reset-password", api.resetPassword)

	ag.POST("/logout", api.logout, jwt)
	ag.GET("/me", api.me, jwt)
	ag.POST("/change-password", api.changePassword, jwt)
}

// authError maps the authentication failures to their HTTP status.
func authError(err error) error {
	switch errors.Cause(err) {
	case user.ErrAuthenticationFailed, user.ErrInvalidToken, user.ErrTokenExpired:
		return echo.NewHTTPError(http.StatusUnauthorized, errors.Cause(err).Error())
	case user.ErrAccountDeactivated:
		return echo.NewHTTPError(http.StatusForbidden, user.ErrAccountDeactivated.Error())
	case user.ErrTooManyAttempts:
		return echo.NewHTTPError(http.StatusTooManyRequests, user.ErrTooManyAttempts.Error())
	}
	return err
}

func (api *authApi) respondTokens(ctx echo.Context, usr user.User, refresh string) error {
	token, err := GenerateToken(NewUserClaims(usr, api.deps.Conf), api.deps.Conf)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, user.LoginResponse{
		AccessToken:  token,
		RefreshToken: refresh,
		TokenType:    tokenType,
		ExpiresIn:    int64(api.deps.Conf.Server.JWTExpirationDelta / time.Second),
		User:         usr,
	})
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	usr, err := api.svc.Authenticate(rctx, data.Username, data.Password)
	if err != nil {
		return authError(err)
	}
	refresh, err := api.svc.IssueRefreshToken(rctx, &usr)
	if err != nil {
		return errors.Wrap(err, "issuing refresh token")
	}
	return api.respondTokens(ctx, usr, refresh)
}

func (api *authApi) refresh(ctx echo.Context) error {
	var data user.RefreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefreshRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, refresh, err := api.svc.Refresh(ctx.Request().Context(), data.RefreshToken)
	if err != nil {
		return authError(err)
	}
	return api.respondTokens(ctx, usr, refresh)
}

func (api *authApi) logout(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	if err := api.svc.Logout(ctx.Request().Context(), usr.ID); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) forgotPassword(ctx echo.Context) error {
	var data user.ForgotPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ForgotPasswordRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil && !core.IsNotFound(err) {
		// do not return errors to attackers
		api.deps.Logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, successResponse{
		Success: "Se o e-mail informado estiver associado a uma conta ativa, " +
			"você receberá em instantes as instruções para redefinir sua senha.",
	})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data user.ResetPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPasswordRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: "Senha redefinida com sucesso."})
}

func (api *authApi) changePassword(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	var data user.ChangePasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePasswordRequest")
	}
	if err := data.Validate(usr, api.deps.Validate); err != nil {
		return err
	}
	if err := api.svc.ChangePassword(ctx.Request().Context(), usr.ID, data); err != nil {
		return errors.Wrap(err, "changing password")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type successResponse struct {
	Success string `json:"success"`
}
