package calendar

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

const (
	GridWeeks = 6
	WeekDays  = 7
)

// Day is one cell of a month grid.
type Day struct {
	Date    core.Date `json:"data"`
	Day     int       `json:"dia"`
	InMonth bool      `json:"doMes"`
	Today   bool      `json:"hoje"`
	Events  []Event   `json:"eventos"`
}

// Month is the 6x7 grid shown for a month, weeks starting on Sunday.
type Month struct {
	Year  int     `json:"ano"`
	Month int     `json:"mes"`
	Weeks [][]Day `json:"semanas"`
}

// MonthGrid lays out the month over 6 weeks starting on the Sunday on or before its first day.
// Each day carries the events spanning it, in the given order.
func MonthGrid(year int, month time.Month, events []Event, today core.Date) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	grid := Month{Year: first.Year(), Month: int(first.Month()), Weeks: make([][]Day, GridWeeks)}
	for w := range grid.Weeks {
		week := make([]Day, WeekDays)
		for d := range week {
			t := start.AddDate(0, 0, w*WeekDays+d)
			day := core.NewDate(t)
			week[d] = Day{
				Date:    day,
				Day:     t.Day(),
				InMonth: t.Month() == first.Month(),
				Today:   day == today,
				Events:  []Event{},
			}
			for _, e := range events {
				if e.On(day) {
					week[d].Events = append(week[d].Events, e)
				}
			}
		}
		grid.Weeks[w] = week
	}
	return grid
}

// Range returns the first and the last day shown by the grid.
func (m Month) Range() (core.Date, core.Date) {
	last := m.Weeks[GridWeeks-1]
	return m.Weeks[0][0].Date, last[WeekDays-1].Date
}

// MonthQuery selects the month of a grid. Zero values default to the current month.
type MonthQuery struct {
	Year  int `query:"ano" json:"ano" validate:"omitempty,min=1900,max=2100"`
	Month int `query:"mes" json:"mes" validate:"omitempty,min=1,max=12"`
}

func (mq *MonthQuery) Validate(validate *validator.Validate) error {
	now := core.NowFunc()
	if mq.Year == 0 {
		mq.Year = now.Year()
	}
	if mq.Month == 0 {
		mq.Month = int(now.Month())
	}
	return core.ValidateStruct(validate, mq)
}
