package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/period"
)

type periodApi struct {
	*resource[int64, period.Period]
	svc *period.Service
}

func registerPeriodAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svc := deps.Services.Periods
	api := periodApi{
		resource: newResource[int64, period.Period](
			svc, deps.Validate, parseInt64, period.Schema.Search,
			intFilter("curriculoId", "curriculo_id"),
			intFilter("numero", "numero"),
		),
		svc: svc,
	}
	api.detail = func(ctx context.Context, p period.Period) (interface{}, error) {
		return svc.WithRelations(ctx, p)
	}

	staff := rolesMiddleware(staffRoles...)
	pg := g.Group("/periodos", jwt)
	api.register(
		pg,
		createHandler[int64, period.Period, period.NewPeriod](api.resource),
		updateHandler[int64, period.Period, period.UpdatePeriod](api.resource),
		staff,
	)

	lg := pg.Group("/:id/disciplinas", api.load)
	lg.GET("", api.subjects)
	lg.POST("", api.link, staff)
	lg.GET("/:linkId", api.getLink)
	lg.PUT("/:linkId", api.updateLink, staff)
	lg.PATCH("/:linkId", api.updateLink, staff)
	lg.DELETE("/:linkId", api.unlink, staff)
}

func (api *periodApi) subjects(ctx echo.Context) error {
	_, id, err := api.object(ctx)
	if err != nil {
		return err
	}
	subjects, err := api.svc.Subjects(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing period subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *periodApi) link(ctx echo.Context) error {
	_, id, err := api.object(ctx)
	if err != nil {
		return err
	}
	var data period.NewLink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLink")
	}
	data.PeriodID = id
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	l, err := api.svc.LinkSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "linking subject")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *periodApi) linkIDs(ctx echo.Context) (int64, int64, error) {
	_, id, err := api.object(ctx)
	if err != nil {
		return 0, 0, err
	}
	linkID, err := pathID(ctx, "linkId")
	return id, linkID, err
}

func (api *periodApi) getLink(ctx echo.Context) error {
	id, linkID, err := api.linkIDs(ctx)
	if err != nil {
		return err
	}
	l, err := api.svc.GetLink(ctx.Request().Context(), id, linkID)
	if err != nil {
		return errors.Wrap(err, "getting link")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *periodApi) updateLink(ctx echo.Context) error {
	id, linkID, err := api.linkIDs(ctx)
	if err != nil {
		return err
	}
	var data period.UpdateLink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLink")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	l, err := api.svc.UpdateLink(ctx.Request().Context(), id, linkID, data)
	if err != nil {
		return errors.Wrap(err, "updating link")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *periodApi) unlink(ctx echo.Context) error {
	id, linkID, err := api.linkIDs(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.UnlinkSubject(ctx.Request().Context(), id, linkID); err != nil {
		return errors.Wrap(err, "unlinking subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}
