package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

var (
	errUnauthorized    = echo.NewHTTPError(http.StatusUnauthorized, "usuário não autenticado")
	errHttpForbidden   = echo.NewHTTPError(http.StatusForbidden, "permissão negada")
	errHttpNotFound    = echo.NewHTTPError(http.StatusNotFound, "registro não encontrado")
	errReferenceInUse  = "registro relacionado inexistente ou em uso"
	errInternalMessage = "erro interno do servidor"
)

// errorResponse is the body of every error response.
type errorResponse struct {
	Error  string            `json:"error"`
	Errors []core.FieldError `json:"errors,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body errorResponse

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				origErr = errUnauthorized
			} else if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(code)
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			body.Error = core.ErrInvalidInput.Error()
			body.Errors = core.FieldErrors(origErr, translator)
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Err == core.ErrDuplicate {
				code = http.StatusConflict
			}
			body.Error = core.ErrInvalidInput.Error()
			if origErr.Err != nil {
				body.Error = origErr.Err.Error()
			}
			body.Errors = origErr.Fields
		case *core.ReferenceViolation:
			code = http.StatusConflict
			body.Error = errReferenceInUse
		default:
			if core.IsNotFound(origErr) {
				code = http.StatusNotFound
				body.Error = core.ErrNotFound.Error()
				break
			}
			// any other error is a server error
			code = http.StatusInternalServerError
			body.Error = errInternalMessage

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID, _ = claims.UserID()
				usr.Role = claims.Role
			}
			if logger != nil {
				logger.Error(errInternalMessage, errors.Wrap(err, ctx.Path()), usr)
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				body.Error = err.Error()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
