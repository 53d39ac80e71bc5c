package professor

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/person"
)

type Service struct {
	*core.Service[string, Professor]
	persons person.Repository
}

func NewService(repo Repository, persons person.Repository) *Service {
	return &Service{
		Service: core.NewService[string, Professor](repo, core.DBOrdering{Field: "matricula", Ascending: true}),
		persons: persons,
	}
}

func (svc *Service) WithRelations(ctx context.Context, p Professor) (WithRelations, error) {
	wr := WithRelations{Professor: p}
	prs, err := svc.persons.Get(ctx, p.PersonID)
	switch {
	case err == nil:
		wr.Person = &prs
	case !core.IsNotFound(err):
		return wr, errors.Wrap(err, "getting person")
	}
	return wr, nil
}

// Summary returns the summary of the professor id.
func (svc *Service) Summary(ctx context.Context, id string) (Summary, error) {
	p, err := svc.Repo().Get(ctx, id)
	if err != nil {
		return Summary{}, errors.Wrap(err, "getting professor")
	}
	prs, err := svc.persons.Get(ctx, p.PersonID)
	if err != nil && !core.IsNotFound(err) {
		return Summary{}, errors.Wrap(err, "getting person")
	}
	return p.Summary(prs), nil
}
