package period

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/curriculum"
	"github.com/trezcool/academia/core/subject"
)

var (
	ErrPeriodNotFound  = errors.New("período não encontrado")
	ErrSubjectNotFound = errors.New("disciplina não encontrada")
)

// StudentCounter returns the number of students currently in a period.
type StudentCounter func(ctx context.Context, periodID int64) (int, error)

type Service struct {
	*core.Service[int64, Period]
	links         *core.Service[int64, Link]
	subjects      subject.Repository
	curricula     curriculum.Repository
	countStudents StudentCounter
}

func NewService(
	repo Repository,
	links LinkRepository,
	subjects subject.Repository,
	curricula curriculum.Repository,
	countStudents StudentCounter,
) *Service {
	return &Service{
		Service:       core.NewService[int64, Period](repo, core.DBOrdering{Field: "curriculo_id", Ascending: true}, core.DBOrdering{Field: "numero", Ascending: true}),
		links:         core.NewService[int64, Link](links),
		subjects:      subjects,
		curricula:     curricula,
		countStudents: countStudents,
	}
}

// WithRelations loads the curriculum, the linked subjects and the counts of p.
func (svc *Service) WithRelations(ctx context.Context, p Period) (WithRelations, error) {
	wr := WithRelations{Period: p}
	if cur, err := svc.curricula.Get(ctx, p.CurriculumID); err == nil {
		sum := cur.Summary()
		wr.Curriculum = &sum
	} else if !core.IsNotFound(err) {
		return wr, errors.Wrap(err, "getting curriculum")
	}

	subjects, err := svc.Subjects(ctx, p.ID)
	if err != nil {
		return wr, err
	}
	wr.Subjects = subjects
	wr.TotalSubjects = len(subjects)

	if svc.countStudents != nil {
		if wr.TotalStudents, err = svc.countStudents(ctx, p.ID); err != nil {
			return wr, errors.Wrap(err, "counting students")
		}
	}
	return wr, nil
}

// Subjects lists the subjects linked to a period, by ordem (unordered links last) then code.
func (svc *Service) Subjects(ctx context.Context, periodID int64) ([]LinkedSubject, error) {
	links, err := core.FindAll(ctx, svc.links.Repo(), core.Filter{}.Where("periodo_id", periodID))
	if err != nil {
		return nil, err
	}
	subjects := make([]LinkedSubject, 0, len(links))
	for _, l := range links {
		subj, err := svc.subjects.Get(ctx, l.SubjectID)
		if err != nil {
			return nil, errors.Wrapf(err, "getting subject %d", l.SubjectID)
		}
		subjects = append(subjects, LinkedSubject{
			LinkID:    l.ID,
			Order:     l.Order,
			Mandatory: l.Mandatory,
			Subject:   subj.Summary(),
		})
	}
	sort.SliceStable(subjects, func(i, j int) bool {
		oi, oj := subjects[i].Order, subjects[j].Order
		switch {
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		case (oi == nil) != (oj == nil):
			return oi != nil
		}
		return subjects[i].Subject.Code < subjects[j].Subject.Code
	})
	return subjects, nil
}

// SubjectPeriods lists the periods a subject is linked to.
func (svc *Service) SubjectPeriods(ctx context.Context, subjectID int64) ([]subject.PeriodRef, error) {
	links, err := core.FindAll(ctx, svc.links.Repo(), core.Filter{}.Where("disciplina_id", subjectID))
	if err != nil {
		return nil, err
	}
	refs := make([]subject.PeriodRef, 0, len(links))
	for _, l := range links {
		p, err := svc.Repo().Get(ctx, l.PeriodID)
		if err != nil {
			return nil, errors.Wrapf(err, "getting period %d", l.PeriodID)
		}
		refs = append(refs, subject.PeriodRef{
			LinkID:    l.ID,
			PeriodID:  p.ID,
			Number:    p.Number,
			Name:      p.Name,
			Order:     l.Order,
			Mandatory: l.Mandatory,
		})
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Number < refs[j].Number })
	return refs, nil
}

// LinkSubject links a subject to a period. Linking the same subject twice is a duplicate.
func (svc *Service) LinkSubject(ctx context.Context, nl NewLink) (Link, error) {
	var flds []core.FieldError
	if _, err := svc.Repo().Get(ctx, nl.PeriodID); err != nil {
		if !core.IsNotFound(err) {
			return Link{}, errors.Wrap(err, "getting period")
		}
		flds = append(flds, core.FieldError{Field: "periodoId", Error: ErrPeriodNotFound.Error()})
	}
	if _, err := svc.subjects.Get(ctx, nl.SubjectID); err != nil {
		if !core.IsNotFound(err) {
			return Link{}, errors.Wrap(err, "getting subject")
		}
		flds = append(flds, core.FieldError{Field: "disciplinaId", Error: ErrSubjectNotFound.Error()})
	}
	if len(flds) > 0 {
		return Link{}, core.NewValidationError(core.ErrInvalidInput, flds...)
	}
	return svc.links.Create(ctx, nl.Build())
}

// GetLink returns the link linkID of the period periodID.
func (svc *Service) GetLink(ctx context.Context, periodID, linkID int64) (Link, error) {
	l, err := svc.links.Get(ctx, linkID)
	if err != nil {
		return l, err
	}
	if l.PeriodID != periodID {
		return Link{}, core.ErrNotFound
	}
	return l, nil
}

func (svc *Service) UpdateLink(ctx context.Context, periodID, linkID int64, ul UpdateLink) (Link, error) {
	if _, err := svc.GetLink(ctx, periodID, linkID); err != nil {
		return Link{}, err
	}
	return svc.links.Update(ctx, linkID, ul.Apply)
}

func (svc *Service) UnlinkSubject(ctx context.Context, periodID, linkID int64) error {
	if _, err := svc.GetLink(ctx, periodID, linkID); err != nil {
		return err
	}
	return svc.links.Delete(ctx, linkID)
}
