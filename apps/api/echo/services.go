package echoapi

import (
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/calendar"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/cohort"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/curriculum"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/evaluation"
	"github.com/trezcool/academia/core/integration"
	"github.com/trezcool/academia/core/lesson"
	"github.com/trezcool/academia/core/period"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/professor"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/storage/database"
)

// Services are the domain services served over HTTP.
type Services struct {
	Users        *user.Service
	Persons      *core.Service[int64, person.Person]
	Enrollments  *enrollment.Service
	Students     *student.Service
	Professors   *professor.Service
	Courses      *core.Service[int64, course.Course]
	Shifts       *core.Service[int64, course.Shift]
	Curricula    *core.Service[int64, curriculum.Curriculum]
	Cohorts      *core.Service[int64, cohort.Cohort]
	Subjects     *core.Service[int64, subject.Subject]
	Periods      *period.Service
	Classes      *class.Service
	Lessons      *core.Service[int64, lesson.Lesson]
	Evaluations  *evaluation.Service
	Attendances  *attendance.Service
	Events       *calendar.Service
	Integrations *integration.Service
}

// NewServices builds every service on top of store.
func NewServices(
	store *database.Store,
	mailSvc core.EmailService,
	limiter core.RateLimiter,
	logger core.Logger,
	conf *core.Config,
) Services {
	users := user.NewService(store.Users, store.Persons, mailSvc, limiter, conf)
	students := student.NewService(store.Students, store.Persons, store.Courses, store.Shifts, store.Cohorts, store.Periods)
	professors := professor.NewService(store.Professors, store.Persons)
	enrollments := enrollment.NewService(store.Tx, store.Persons, students, professors, users)
	classes := class.NewService(store.Classes, store.Enrollments, store.Subjects, professors, students)

	return Services{
		Users:       users,
		Persons:     core.NewService[int64, person.Person](store.Persons, core.DBOrdering{Field: "nome_completo", Ascending: true}),
		Enrollments: enrollments,
		Students:    students,
		Professors:  professors,
		Courses:     core.NewService[int64, course.Course](store.Courses, core.DBOrdering{Field: "nome", Ascending: true}),
		Shifts:      core.NewService[int64, course.Shift](store.Shifts, core.DBOrdering{Field: "nome", Ascending: true}),
		Curricula:   core.NewService[int64, curriculum.Curriculum](store.Curricula, core.DBOrdering{Field: "vigente_de", Ascending: false}),
		Cohorts:     core.NewService[int64, cohort.Cohort](store.Cohorts, core.DBOrdering{Field: "ano_ingresso", Ascending: false}),
		Subjects:    core.NewService[int64, subject.Subject](store.Subjects, core.DBOrdering{Field: "codigo", Ascending: true}),
		Periods: period.NewService(
			store.Periods, store.PeriodLinks, store.Subjects, store.Curricula,
			core.CountBy[string, student.Student, int64](store.Students, "periodo_id"),
		),
		Classes:      classes,
		Lessons:      core.NewService[int64, lesson.Lesson](store.Lessons, core.DBOrdering{Field: "data", Ascending: false}),
		Evaluations:  evaluation.NewService(store.Evaluations, store.Grades, classes, store.Tx),
		Attendances:  attendance.NewService(store.Attendances, store.Lessons, classes, store.Tx),
		Events:       calendar.NewService(store.Events),
		Integrations: integration.NewService(store.Integrations, enrollments, store.Tx, logger),
	}
}
