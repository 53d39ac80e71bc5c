package echoapi

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/cohort"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/curriculum"
	"github.com/trezcool/academia/core/subject"
)

// registerCurriculumAPI serves the records a curriculum is made of: courses, shifts, curricula,
// cohorts and subjects.
func registerCurriculumAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svcs := deps.Services
	staff := rolesMiddleware(staffRoles...)

	courses := newResource[int64, course.Course](svcs.Courses, deps.Validate, parseInt64, course.Schema.Search)
	courses.register(
		g.Group("/cursos", jwt),
		createHandler[int64, course.Course, course.NewCourse](courses),
		updateHandler[int64, course.Course, course.UpdateCourse](courses),
		staff,
	)

	shifts := newResource[int64, course.Shift](svcs.Shifts, deps.Validate, parseInt64, course.ShiftSchema.Search)
	shifts.register(
		g.Group("/turnos", jwt),
		createHandler[int64, course.Shift, course.NewShift](shifts),
		updateHandler[int64, course.Shift, course.UpdateShift](shifts),
		staff,
	)

	curricula := newResource[int64, curriculum.Curriculum](
		svcs.Curricula, deps.Validate, parseInt64, curriculum.Schema.Search,
		intFilter("cursoId", "curso_id"),
		intFilter("turnoId", "turno_id"),
		boolFilter("ativo", "ativo"),
	)
	curricula.register(
		g.Group("/curriculos", jwt),
		createHandler[int64, curriculum.Curriculum, curriculum.NewCurriculum](curricula),
		updateHandler[int64, curriculum.Curriculum, curriculum.UpdateCurriculum](curricula),
		staff,
	)

	cohorts := newResource[int64, cohort.Cohort](
		svcs.Cohorts, deps.Validate, parseInt64, cohort.Schema.Search,
		intFilter("cursoId", "curso_id"),
		intFilter("turnoId", "turno_id"),
		intFilter("curriculoId", "curriculo_id"),
		intFilter("anoIngresso", "ano_ingresso"),
		boolFilter("ativo", "ativo"),
	)
	cohorts.register(
		g.Group("/coortes", jwt),
		createHandler[int64, cohort.Cohort, cohort.NewCohort](cohorts),
		updateHandler[int64, cohort.Cohort, cohort.UpdateCohort](cohorts),
		staff,
	)

	subjects := newResource[int64, subject.Subject](
		svcs.Subjects, deps.Validate, parseInt64, subject.Schema.Search,
		intFilter("cursoId", "curso_id"),
		boolFilter("ativo", "ativo"),
	)
	subjects.detail = func(ctx context.Context, s subject.Subject) (interface{}, error) {
		out := subject.WithRelations{Subject: s}
		c, err := svcs.Courses.Get(ctx, s.CourseID)
		switch {
		case err == nil:
			sum := c.Summary()
			out.Course = &sum
		case !core.IsNotFound(err):
			return nil, err
		}
		if out.Periods, err = svcs.Periods.SubjectPeriods(ctx, s.ID); err != nil {
			return nil, err
		}
		return out, nil
	}
	subjects.register(
		g.Group("/disciplinas", jwt),
		createHandler[int64, subject.Subject, subject.NewSubject](subjects),
		updateHandler[int64, subject.Subject, subject.UpdateSubject](subjects),
		staff,
	)
}
