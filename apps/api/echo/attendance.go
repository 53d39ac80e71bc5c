package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/lesson"
)

type attendanceApi struct {
	*resource[int64, attendance.Attendance]
	svc     *attendance.Service
	lessons *core.Service[int64, lesson.Lesson]
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svc := deps.Services.Attendances
	api := attendanceApi{
		resource: newResource[int64, attendance.Attendance](
			svc, deps.Validate, parseInt64, nil,
			intFilter("aulaId", "aula_id"),
			intFilter("inscricaoId", "inscricao_id"),
			boolFilter("presente", "presente"),
		),
		svc:     svc,
		lessons: deps.Services.Lessons,
	}

	teachers := rolesMiddleware(teacherRoles...)
	api.register(
		g.Group("/frequencias", jwt),
		createHandler[int64, attendance.Attendance, attendance.NewAttendance](api.resource),
		updateHandler[int64, attendance.Attendance, attendance.UpdateAttendance](api.resource),
		teachers,
	)

	lg := g.Group("/aulas/:id/frequencias", jwt)
	lg.GET("", api.lessonSheet)
	lg.POST("", api.registerSheet, teachers)

	g.GET("/turmas/:id/frequencias/resumo", api.summaries, jwt)
}

func (api *attendanceApi) lessonSheet(ctx echo.Context) error {
	lessonID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	if _, err := api.lessons.Get(rctx, lessonID); err != nil {
		return errors.Wrap(err, "getting lesson")
	}
	recs, err := core.FindAll(rctx, api.svc.Repo(), core.Filter{}.Where("aula_id", lessonID),
		core.DBOrdering{Field: "inscricao_id", Ascending: true})
	if err != nil {
		return errors.Wrap(err, "listing lesson attendance")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) registerSheet(ctx echo.Context) error {
	lessonID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data attendance.Sheet
	if err := bindValid(ctx, &data, api.validate); err != nil {
		return err
	}
	recs, err := api.svc.Register(ctx.Request().Context(), lessonID, data)
	if err != nil {
		return errors.Wrap(err, "registering attendance")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) summaries(ctx echo.Context) error {
	classID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	sums, err := api.svc.Summaries(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ctx.JSON(http.StatusOK, sums)
}
