package evaluation

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/class"
)

var (
	ErrClassNotFound      = errors.New("turma não encontrada")
	ErrEnrollmentNotFound = errors.New("inscrição não encontrada nesta turma")
)

type Service struct {
	*core.Service[int64, Evaluation]
	grades  *core.Service[int64, Grade]
	classes *class.Service
	tx      core.Transactor
}

func NewService(repo Repository, grades GradeRepository, classes *class.Service, tx core.Transactor) *Service {
	return &Service{
		Service: core.NewService[int64, Evaluation](repo, core.DBOrdering{Field: "data", Ascending: true}),
		grades:  core.NewService[int64, Grade](grades),
		classes: classes,
		tx:      tx,
	}
}

func (svc *Service) Create(ctx context.Context, e Evaluation) (Evaluation, error) {
	if _, err := svc.classes.Get(ctx, e.ClassID); err != nil {
		if core.IsNotFound(err) {
			return e, core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: "turmaId", Error: ErrClassNotFound.Error()})
		}
		return e, err
	}
	return svc.Service.Create(ctx, e)
}

// Delete removes the evaluations along with their grades.
func (svc *Service) Delete(ctx context.Context, ids ...int64) error {
	return svc.tx.Tx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			grades, err := core.FindAll(ctx, svc.grades.Repo(), core.Filter{}.Where("avaliacao_id", id))
			if err != nil {
				return err
			}
			gids := make([]int64, len(grades))
			for i, g := range grades {
				gids[i] = g.ID
			}
			if err := svc.grades.Delete(ctx, gids...); err != nil {
				return err
			}
		}
		return svc.Service.Delete(ctx, ids...)
	})
}

// Launch creates or replaces the grades of the evaluation evalID in one transaction.
// Every row must reference an enrolment of the evaluation class.
func (svc *Service) Launch(ctx context.Context, evalID int64, lg LaunchGrades) ([]Grade, error) {
	eval, err := svc.Get(ctx, evalID)
	if err != nil {
		return nil, err
	}

	var flds []core.FieldError
	for i, in := range lg.Grades {
		if _, err := svc.classes.GetEnrollment(ctx, eval.ClassID, in.EnrollmentID); err != nil {
			if !core.IsNotFound(err) {
				return nil, err
			}
			flds = append(flds, core.FieldError{Field: fmt.Sprintf("notas[%d].inscricaoId", i), Error: ErrEnrollmentNotFound.Error()})
		}
	}
	if len(flds) > 0 {
		return nil, core.NewValidationError(core.ErrInvalidInput, flds...)
	}

	grades := make([]Grade, 0, len(lg.Grades))
	err = svc.tx.Tx(ctx, func(ctx context.Context) error {
		for _, in := range lg.Grades {
			g, err := svc.upsert(ctx, evalID, in)
			if err != nil {
				return err
			}
			grades = append(grades, g)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "launching grades")
	}
	return grades, nil
}

func (svc *Service) upsert(ctx context.Context, evalID int64, in GradeInput) (Grade, error) {
	var score float64
	if in.Score != nil {
		score = *in.Score
	}
	filter := core.Filter{}.Where("avaliacao_id", evalID).Where("inscricao_id", in.EnrollmentID)
	g, err := core.FindOne(ctx, svc.grades.Repo(), filter)
	switch {
	case core.IsNotFound(err):
		return svc.grades.Create(ctx, Grade{EvaluationID: evalID, EnrollmentID: in.EnrollmentID, Score: score, Remark: in.Remark})
	case err != nil:
		return g, err
	}
	return svc.grades.Update(ctx, g.ID, func(g *Grade) {
		g.Score = score
		g.Remark = in.Remark
	})
}

func (svc *Service) Grades(ctx context.Context, evalID int64, page core.PageRequest, ordering ...core.DBOrdering) (core.Page[Grade], error) {
	if _, err := svc.Get(ctx, evalID); err != nil {
		return core.Page[Grade]{}, err
	}
	return svc.grades.List(ctx, core.Filter{}.Where("avaliacao_id", evalID), page, ordering...)
}

// DeleteGrade removes the grade id of the evaluation evalID.
func (svc *Service) DeleteGrade(ctx context.Context, evalID, id int64) error {
	g, err := svc.grades.Get(ctx, id)
	if err != nil {
		return err
	}
	if g.EvaluationID != evalID {
		return core.ErrNotFound
	}
	return svc.grades.Delete(ctx, id)
}

// CheckWeights adds up the weights of the evaluations of a class.
func (svc *Service) CheckWeights(ctx context.Context, classID int64) (WeightCheck, error) {
	if _, err := svc.classes.Get(ctx, classID); err != nil {
		return WeightCheck{}, err
	}
	total, err := svc.Repo().Sum(ctx, core.Filter{}.Where("turma_id", classID), "peso")
	if err != nil {
		return WeightCheck{}, errors.Wrap(err, "adding up weights")
	}
	return NewWeightCheck(classID, int(total)), nil
}

// Averages computes the weighted average of every enrolment of a class.
func (svc *Service) Averages(ctx context.Context, classID int64) ([]Average, error) {
	if _, err := svc.classes.Get(ctx, classID); err != nil {
		return nil, err
	}
	evals, err := core.FindAll(ctx, svc.Repo(), core.Filter{}.Where("turma_id", classID))
	if err != nil {
		return nil, err
	}
	// {enrolment: scores}
	scores := make(map[int64][]WeightedScore)
	for _, e := range evals {
		grades, err := core.FindAll(ctx, svc.grades.Repo(), core.Filter{}.Where("avaliacao_id", e.ID))
		if err != nil {
			return nil, err
		}
		for _, g := range grades {
			scores[g.EnrollmentID] = append(scores[g.EnrollmentID], WeightedScore{Score: g.Score, Weight: e.Weight})
		}
	}

	enrs, err := core.FindAll(ctx, svc.classes.Enrollments().Repo(), core.Filter{}.Where("turma_id", classID),
		core.DBOrdering{Field: "aluno_id", Ascending: true})
	if err != nil {
		return nil, err
	}
	avgs := make([]Average, len(enrs))
	for i, enr := range enrs {
		avgs[i] = Average{EnrollmentID: enr.ID, StudentID: enr.StudentID, Graded: len(scores[enr.ID]), Total: len(evals)}
		if avg, ok := WeightedAverage(scores[enr.ID]); ok {
			avgs[i].Average = &avg
		}
	}
	return avgs, nil
}

// CloseAverages stores the weighted averages of a class as the final grade of its enrolments.
// Enrolments without any grade are left untouched.
func (svc *Service) CloseAverages(ctx context.Context, classID int64) ([]Average, error) {
	var avgs []Average
	err := svc.tx.Tx(ctx, func(ctx context.Context) error {
		var err error
		if avgs, err = svc.Averages(ctx, classID); err != nil {
			return err
		}
		for _, avg := range avgs {
			if avg.Average == nil {
				continue
			}
			final := *avg.Average
			if _, err := svc.classes.Enrollments().Update(ctx, avg.EnrollmentID, func(e *class.Enrollment) {
				e.FinalGrade = &final
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return avgs, errors.Wrap(err, "closing averages")
}
