package attendance

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/lesson"
)

var (
	ErrLessonNotFound     = errors.New("aula não encontrada")
	ErrEnrollmentNotFound = errors.New("inscrição não encontrada na turma da aula")
)

type Service struct {
	*core.Service[int64, Attendance]
	lessons lesson.Repository
	classes *class.Service
	tx      core.Transactor
}

func NewService(repo Repository, lessons lesson.Repository, classes *class.Service, tx core.Transactor) *Service {
	return &Service{
		Service: core.NewService[int64, Attendance](repo, core.DBOrdering{Field: "aula_id", Ascending: true}),
		lessons: lessons,
		classes: classes,
		tx:      tx,
	}
}

// Create checks that the enrolment belongs to the class of the lesson.
func (svc *Service) Create(ctx context.Context, a Attendance) (Attendance, error) {
	l, err := svc.lessons.Get(ctx, a.LessonID)
	if err != nil {
		if core.IsNotFound(err) {
			return a, core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: "aulaId", Error: ErrLessonNotFound.Error()})
		}
		return a, errors.Wrap(err, "getting lesson")
	}
	if _, err := svc.classes.GetEnrollment(ctx, l.ClassID, a.EnrollmentID); err != nil {
		if core.IsNotFound(err) {
			return a, core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: "inscricaoId", Error: ErrEnrollmentNotFound.Error()})
		}
		return a, err
	}
	return svc.Service.Create(ctx, a)
}

// Register creates or replaces the attendance of the lesson lessonID in one transaction.
func (svc *Service) Register(ctx context.Context, lessonID int64, sheet Sheet) ([]Attendance, error) {
	l, err := svc.lessons.Get(ctx, lessonID)
	if err != nil {
		return nil, errors.Wrap(err, "getting lesson")
	}

	var flds []core.FieldError
	for i, e := range sheet.Entries {
		if _, err := svc.classes.GetEnrollment(ctx, l.ClassID, e.EnrollmentID); err != nil {
			if !core.IsNotFound(err) {
				return nil, err
			}
			flds = append(flds, core.FieldError{Field: fmt.Sprintf("registros[%d].inscricaoId", i), Error: ErrEnrollmentNotFound.Error()})
		}
	}
	if len(flds) > 0 {
		return nil, core.NewValidationError(core.ErrInvalidInput, flds...)
	}

	recs := make([]Attendance, 0, len(sheet.Entries))
	err = svc.tx.Tx(ctx, func(ctx context.Context) error {
		for _, e := range sheet.Entries {
			a, err := svc.upsert(ctx, lessonID, e)
			if err != nil {
				return err
			}
			recs = append(recs, a)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "registering attendance")
	}
	return recs, nil
}

func (svc *Service) upsert(ctx context.Context, lessonID int64, e Entry) (Attendance, error) {
	present := e.Present != nil && *e.Present
	filter := core.Filter{}.Where("aula_id", lessonID).Where("inscricao_id", e.EnrollmentID)
	a, err := core.FindOne(ctx, svc.Repo(), filter)
	switch {
	case core.IsNotFound(err):
		return svc.Service.Create(ctx, Attendance{LessonID: lessonID, EnrollmentID: e.EnrollmentID, Present: present, Justification: e.Justification})
	case err != nil:
		return a, err
	}
	return svc.Update(ctx, a.ID, func(a *Attendance) {
		a.Present = present
		a.Justification = e.Justification
	})
}

// Summaries returns the attendance summary of every enrolment of a class.
// Only the lessons with attendance taken are counted; an enrolment left off such a lesson's sheet is absent.
func (svc *Service) Summaries(ctx context.Context, classID int64) ([]Summary, error) {
	if _, err := svc.classes.Get(ctx, classID); err != nil {
		return nil, err
	}
	lessons, err := core.FindAll(ctx, svc.lessons, core.Filter{}.Where("turma_id", classID))
	if err != nil {
		return nil, err
	}
	var taken int
	presences := make(map[int64]int) // {enrolment: presences}
	for _, l := range lessons {
		recs, err := core.FindAll(ctx, svc.Repo(), core.Filter{}.Where("aula_id", l.ID))
		if err != nil {
			return nil, err
		}
		if len(recs) > 0 {
			taken++
		}
		for _, a := range recs {
			if a.Present {
				presences[a.EnrollmentID]++
			}
		}
	}

	enrs, err := core.FindAll(ctx, svc.classes.Enrollments().Repo(), core.Filter{}.Where("turma_id", classID),
		core.DBOrdering{Field: "aluno_id", Ascending: true})
	if err != nil {
		return nil, err
	}
	sums := make([]Summary, len(enrs))
	for i, enr := range enrs {
		sums[i] = NewSummary(enr.ID, enr.StudentID, taken, presences[enr.ID])
	}
	return sums, nil
}
