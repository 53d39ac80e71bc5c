package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/calendar"
)

type calendarApi struct {
	*resource[int64, calendar.Event]
	svc *calendar.Service
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svc := deps.Services.Events
	api := calendarApi{
		resource: newResource[int64, calendar.Event](
			svc, deps.Validate, parseInt64, calendar.Schema.Search,
			stringFilter("semestre", "semestre"),
		),
		svc: svc,
	}

	eg := g.Group("/eventos", jwt)
	eg.GET("/calendario", api.month)
	api.register(
		eg,
		createHandler[int64, calendar.Event, calendar.NewEvent](api.resource),
		updateHandler[int64, calendar.Event, calendar.UpdateEvent](api.resource),
		rolesMiddleware(staffRoles...),
	)
}

// month renders the grid of the month given by `ano` and `mes`, the current one by default.
func (api *calendarApi) month(ctx echo.Context) error {
	var mq calendar.MonthQuery
	var err error
	if mq.Year, err = intParam(ctx, "ano"); err != nil {
		return err
	}
	if mq.Month, err = intParam(ctx, "mes"); err != nil {
		return err
	}
	if err := mq.Validate(api.validate); err != nil {
		return err
	}
	m, err := api.svc.Month(ctx.Request().Context(), mq)
	if err != nil {
		return errors.Wrap(err, "building month")
	}
	return ctx.JSON(http.StatusOK, m)
}
