package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/cohort"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/period"
	"github.com/trezcool/academia/core/person"
)

type Service struct {
	*core.Service[string, Student]
	persons person.Repository
	courses course.Repository
	shifts  course.ShiftRepository
	cohorts cohort.Repository
	periods period.Repository
}

func NewService(
	repo Repository,
	persons person.Repository,
	courses course.Repository,
	shifts course.ShiftRepository,
	cohorts cohort.Repository,
	periods period.Repository,
) *Service {
	return &Service{
		Service: core.NewService[string, Student](repo, core.DBOrdering{Field: "ra", Ascending: true}),
		persons: persons,
		courses: courses,
		shifts:  shifts,
		cohorts: cohorts,
		periods: periods,
	}
}

// WithRelations loads the person, course, shift, cohort and period of s.
// Dangling references are left out.
func (svc *Service) WithRelations(ctx context.Context, s Student) (WithRelations, error) {
	wr := WithRelations{Student: s}

	if p, err := svc.persons.Get(ctx, s.PersonID); err == nil {
		wr.Person = &p
	} else if err := ignoreNotFound(err, "getting person"); err != nil {
		return wr, err
	}

	if c, err := svc.courses.Get(ctx, s.CourseID); err == nil {
		sum := c.Summary()
		wr.Course = &sum
	} else if err := ignoreNotFound(err, "getting course"); err != nil {
		return wr, err
	}

	if s.ShiftID != nil {
		if sh, err := svc.shifts.Get(ctx, *s.ShiftID); err == nil {
			sum := sh.Summary()
			wr.Shift = &sum
		} else if err := ignoreNotFound(err, "getting shift"); err != nil {
			return wr, err
		}
	}

	if s.CohortID != nil {
		if co, err := svc.cohorts.Get(ctx, *s.CohortID); err == nil {
			sum := co.Summary()
			wr.Cohort = &sum
		} else if err := ignoreNotFound(err, "getting cohort"); err != nil {
			return wr, err
		}
	}

	if s.PeriodID != nil {
		if pe, err := svc.periods.Get(ctx, *s.PeriodID); err == nil {
			sum := pe.Summary()
			wr.Period = &sum
		} else if err := ignoreNotFound(err, "getting period"); err != nil {
			return wr, err
		}
	}
	return wr, nil
}

// Summaries returns the summary of each student by RA. Unknown RAs are skipped.
func (svc *Service) Summaries(ctx context.Context, ras ...string) (map[string]Summary, error) {
	sums := make(map[string]Summary, len(ras))
	for _, ra := range ras {
		if _, ok := sums[ra]; ok {
			continue
		}
		s, err := svc.Repo().Get(ctx, ra)
		if core.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "getting student %s", ra)
		}
		p, err := svc.persons.Get(ctx, s.PersonID)
		if err := ignoreNotFound(err, "getting person"); err != nil {
			return nil, err
		}
		sums[ra] = s.Summary(p)
	}
	return sums, nil
}

func ignoreNotFound(err error, msg string) error {
	if err == nil || core.IsNotFound(err) {
		return nil
	}
	return errors.Wrap(err, msg)
}
