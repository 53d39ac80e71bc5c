package calendar

import (
	"context"
	"time"

	"github.com/trezcool/academia/core"
)

type Service struct {
	*core.Service[int64, Event]
}

func NewService(repo Repository) *Service {
	return &Service{
		Service: core.NewService[int64, Event](repo, core.DBOrdering{Field: "data_inicio", Ascending: true}),
	}
}

// Month returns the grid of a month along with the events shown on it.
func (svc *Service) Month(ctx context.Context, mq MonthQuery) (Month, error) {
	// TODO: filter by date range in storage once Filter supports range conditions.
	events, err := core.FindAll(ctx, svc.Repo(), core.Filter{}, core.DBOrdering{Field: "data_inicio", Ascending: true})
	if err != nil {
		return Month{}, err
	}
	return MonthGrid(mq.Year, time.Month(mq.Month), events, core.NewDate(core.NowFunc())), nil
}
