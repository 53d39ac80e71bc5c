package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/student"
)

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svc := deps.Services.Students
	r := newResource[string, student.Student](
		svc, deps.Validate, parseCode, student.Schema.Search,
		intFilter("cursoId", "curso_id"),
		intFilter("coorteId", "coorte_id"),
		intFilter("periodoId", "periodo_id"),
		intFilter("turnoId", "turno_id"),
		stringFilter("situacao", "situacao"),
		intFilter("anoIngresso", "ano_ingresso"),
	)
	r.detail = func(ctx context.Context, s student.Student) (interface{}, error) {
		return svc.WithRelations(ctx, s)
	}

	// students are created with their person, and optionally their login, by the enrollment service
	create := func(ctx echo.Context) error {
		var data student.NewStudentWithUser
		if err := bindValid(ctx, &data, deps.Validate); err != nil {
			return err
		}
		rec, err := deps.Services.Enrollments.CreateStudent(ctx.Request().Context(), data)
		if err != nil {
			return errors.Wrap(err, "creating student")
		}
		return ctx.JSON(http.StatusCreated, rec)
	}

	r.register(
		g.Group("/alunos", jwt),
		create,
		updateHandler[string, student.Student, student.UpdateStudent](r),
		rolesMiddleware(staffRoles...),
	)
}
