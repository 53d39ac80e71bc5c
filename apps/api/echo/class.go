package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/lesson"
)

type classApi struct {
	*resource[int64, class.Class]
	svc        *class.Service
	enrColumns map[string]string
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svc := deps.Services.Classes
	api := classApi{
		resource: newResource[int64, class.Class](
			svc, deps.Validate, parseInt64, class.Schema.Search,
			intFilter("disciplinaId", "disciplina_id"),
			stringFilter("professorId", "professor_id"),
			stringFilter("semestre", "semestre"),
			intFilter("periodoId", "periodo_id"),
		),
		svc:        svc,
		enrColumns: core.Columns(class.Enrollment{}),
	}
	api.detail = func(ctx context.Context, c class.Class) (interface{}, error) {
		return svc.WithRelations(ctx, c)
	}

	staff := rolesMiddleware(staffRoles...)
	cg := g.Group("/turmas", jwt)
	api.register(
		cg,
		createHandler[int64, class.Class, class.NewClass](api.resource),
		updateHandler[int64, class.Class, class.UpdateClass](api.resource),
		staff,
	)

	eg := cg.Group("/:id/inscricoes", api.load)
	eg.GET("", api.enrollments)
	eg.POST("", api.enroll, staff)
	eg.GET("/:enrollmentId", api.getEnrollment)
	eg.PUT("/:enrollmentId", api.updateEnrollment, staff)
	eg.PATCH("/:enrollmentId", api.updateEnrollment, staff)
	eg.DELETE("/:enrollmentId", api.unenroll, staff)

	lessons := newResource[int64, lesson.Lesson](
		deps.Services.Lessons, deps.Validate, parseInt64, lesson.Schema.Search,
		intFilter("turmaId", "turma_id"),
	)
	lessons.register(
		g.Group("/aulas", jwt),
		createHandler[int64, lesson.Lesson, lesson.NewLesson](lessons),
		updateHandler[int64, lesson.Lesson, lesson.UpdateLesson](lessons),
		rolesMiddleware(teacherRoles...),
	)
}

func (api *classApi) enrollments(ctx echo.Context) error {
	_, id, err := api.object(ctx)
	if err != nil {
		return err
	}
	q, err := bindListQuery(ctx, api.enrColumns)
	if err != nil {
		return err
	}
	page, err := api.svc.ListEnrollments(ctx.Request().Context(), id, q.Page, q.Ordering...)
	if err != nil {
		return errors.Wrap(err, "listing enrollments")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *classApi) enroll(ctx echo.Context) error {
	_, id, err := api.object(ctx)
	if err != nil {
		return err
	}
	var data class.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	data.ClassID = id
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	e, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *classApi) enrollmentIDs(ctx echo.Context) (int64, int64, error) {
	_, id, err := api.object(ctx)
	if err != nil {
		return 0, 0, err
	}
	enrID, err := pathID(ctx, "enrollmentId")
	return id, enrID, err
}

func (api *classApi) getEnrollment(ctx echo.Context) error {
	id, enrID, err := api.enrollmentIDs(ctx)
	if err != nil {
		return err
	}
	e, err := api.svc.GetEnrollment(ctx.Request().Context(), id, enrID)
	if err != nil {
		return errors.Wrap(err, "getting enrollment")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *classApi) updateEnrollment(ctx echo.Context) error {
	id, enrID, err := api.enrollmentIDs(ctx)
	if err != nil {
		return err
	}
	var data class.UpdateEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	e, err := api.svc.UpdateEnrollment(ctx.Request().Context(), id, enrID, data)
	if err != nil {
		return errors.Wrap(err, "updating enrollment")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *classApi) unenroll(ctx echo.Context) error {
	id, enrID, err := api.enrollmentIDs(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Unenroll(ctx.Request().Context(), id, enrID); err != nil {
		return errors.Wrap(err, "unenrolling student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
