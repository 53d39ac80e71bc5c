package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/professor"
)

func registerProfessorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svc := deps.Services.Professors
	r := newResource[string, professor.Professor](
		svc, deps.Validate, parseCode, professor.Schema.Search,
		stringFilter("situacao", "situacao"),
	)
	r.detail = func(ctx context.Context, p professor.Professor) (interface{}, error) {
		return svc.WithRelations(ctx, p)
	}

	create := func(ctx echo.Context) error {
		var data professor.NewProfessorWithUser
		if err := bindValid(ctx, &data, deps.Validate); err != nil {
			return err
		}
		rec, err := deps.Services.Enrollments.CreateProfessor(ctx.Request().Context(), data)
		if err != nil {
			return errors.Wrap(err, "creating professor")
		}
		return ctx.JSON(http.StatusCreated, rec)
	}

	r.register(
		g.Group("/professores", jwt),
		create,
		updateHandler[string, professor.Professor, professor.UpdateProfessor](r),
		rolesMiddleware(staffRoles...),
	)
}
