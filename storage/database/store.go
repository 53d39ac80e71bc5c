package database

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/calendar"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/cohort"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/curriculum"
	"github.com/trezcool/academia/core/evaluation"
	"github.com/trezcool/academia/core/integration"
	"github.com/trezcool/academia/core/lesson"
	"github.com/trezcool/academia/core/period"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/professor"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/user"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	pgdb "github.com/trezcool/academia/storage/database/postgres"
)

// Store holds one repository per table.
type Store struct {
	Tx core.Transactor
	// SQL is nil for the memory engine.
	SQL *sql.DB

	Persons      person.Repository
	Users        user.Repository
	Courses      course.Repository
	Shifts       course.ShiftRepository
	Curricula    curriculum.Repository
	Cohorts      cohort.Repository
	Periods      period.Repository
	PeriodLinks  period.LinkRepository
	Subjects     subject.Repository
	Students     student.Repository
	Professors   professor.Repository
	Classes      class.Repository
	Enrollments  class.EnrollmentRepository
	Lessons      lesson.Repository
	Evaluations  evaluation.Repository
	Grades       evaluation.GradeRepository
	Attendances  attendance.Repository
	Events       calendar.Repository
	Integrations integration.Repository
}

func (s *Store) Close() error {
	if s.SQL == nil {
		return nil
	}
	return s.SQL.Close()
}

// NewStore opens the store of the configured engine: `memory` or `postgres`.
func NewStore(conf *core.Config) (*Store, error) {
	switch conf.Database.Engine {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		db, err := Open(conf)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	}
	return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}

func NewMemoryStore() *Store {
	db := inmemdb.Open()
	return &Store{
		Tx:           db,
		Persons:      inmemdb.NewTable(db, person.Schema),
		Users:        inmemdb.NewTable(db, user.Schema),
		Courses:      inmemdb.NewTable(db, course.Schema),
		Shifts:       inmemdb.NewTable(db, course.ShiftSchema),
		Curricula:    inmemdb.NewTable(db, curriculum.Schema),
		Cohorts:      inmemdb.NewTable(db, cohort.Schema),
		Periods:      inmemdb.NewTable(db, period.Schema),
		PeriodLinks:  inmemdb.NewTable(db, period.LinkSchema),
		Subjects:     inmemdb.NewTable(db, subject.Schema),
		Students:     inmemdb.NewTable(db, student.Schema),
		Professors:   inmemdb.NewTable(db, professor.Schema),
		Classes:      inmemdb.NewTable(db, class.Schema),
		Enrollments:  inmemdb.NewTable(db, class.EnrollmentSchema),
		Lessons:      inmemdb.NewTable(db, lesson.Schema),
		Evaluations:  inmemdb.NewTable(db, evaluation.Schema),
		Grades:       inmemdb.NewTable(db, evaluation.GradeSchema),
		Attendances:  inmemdb.NewTable(db, attendance.Schema),
		Events:       inmemdb.NewTable(db, calendar.Schema),
		Integrations: inmemdb.NewTable(db, integration.Schema),
	}
}

func NewPostgresStore(sqlDB *sql.DB) *Store {
	db := pgdb.New(sqlDB)
	return &Store{
		Tx:           db,
		SQL:          sqlDB,
		Persons:      pgdb.NewTable(db, person.Schema),
		Users:        pgdb.NewTable(db, user.Schema),
		Courses:      pgdb.NewTable(db, course.Schema),
		Shifts:       pgdb.NewTable(db, course.ShiftSchema),
		Curricula:    pgdb.NewTable(db, curriculum.Schema),
		Cohorts:      pgdb.NewTable(db, cohort.Schema),
		Periods:      pgdb.NewTable(db, period.Schema),
		PeriodLinks:  pgdb.NewTable(db, period.LinkSchema),
		Subjects:     pgdb.NewTable(db, subject.Schema),
		Students:     pgdb.NewTable(db, student.Schema),
		Professors:   pgdb.NewTable(db, professor.Schema),
		Classes:      pgdb.NewTable(db, class.Schema),
		Enrollments:  pgdb.NewTable(db, class.EnrollmentSchema),
		Lessons:      pgdb.NewTable(db, lesson.Schema),
		Evaluations:  pgdb.NewTable(db, evaluation.Schema),
		Grades:       pgdb.NewTable(db, evaluation.GradeSchema),
		Attendances:  pgdb.NewTable(db, attendance.Schema),
		Events:       pgdb.NewTable(db, calendar.Schema),
		Integrations: pgdb.NewTable(db, integration.Schema),
	}
}
