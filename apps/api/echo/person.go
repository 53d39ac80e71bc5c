package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/person"
)

func registerPersonAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	r := newResource[int64, person.Person](
		deps.Services.Persons, deps.Validate, parseInt64, person.Schema.Search,
		stringFilter("cpf", "cpf"),
		stringFilter("email", "email"),
	)
	r.register(
		g.Group("/pessoas", jwt),
		createHandler[int64, person.Person, person.NewPerson](r),
		updateHandler[int64, person.Person, person.UpdatePerson](r),
		rolesMiddleware(staffRoles...),
	)
}
