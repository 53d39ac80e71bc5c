package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/integration"
)

type integrationApi struct {
	svc      *integration.Service
	validate *validator.Validate
	columns  map[string]string
	filters  []queryFilter
}

func registerIntegrationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := integrationApi{
		svc:      deps.Services.Integrations,
		validate: deps.Validate,
		columns:  core.Columns(integration.Link{}),
		filters: []queryFilter{
			stringFilter("origem", "origem"),
			stringFilter("tipo", "tipo"),
			stringFilter("externalId", "external_id"),
		},
	}

	ig := g.Group("/integracoes", jwt, rolesMiddleware(staffRoles...))
	ig.GET("", api.links)
	ig.POST("/directus/alunos", api.importStudents)
	ig.POST("/directus/professores", api.importProfessors)
}

func (api *integrationApi) links(ctx echo.Context) error {
	q, err := bindListQuery(ctx, api.columns)
	if err != nil {
		return err
	}
	filter, err := bindFilter(ctx, api.filters)
	if err != nil {
		return err
	}
	page, err := api.svc.Links(ctx.Request().Context(), filter.Matching(q.Search, integration.Schema.Search...), q.Page, q.Ordering...)
	if err != nil {
		return errors.Wrap(err, "listing integration links")
	}
	return ctx.JSON(http.StatusOK, page)
}

// importStudents answers 200 with the outcome of every item, even when some failed.
func (api *integrationApi) importStudents(ctx echo.Context) error {
	var data integration.ImportStudentsRequest
	if err := bindValid(ctx, &data, api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.ImportStudents(ctx.Request().Context(), data))
}

func (api *integrationApi) importProfessors(ctx echo.Context) error {
	var data integration.ImportProfessorsRequest
	if err := bindValid(ctx, &data, api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.ImportProfessors(ctx.Request().Context(), data))
}
