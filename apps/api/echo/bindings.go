package echoapi

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

const (
	orderingParam = "ordering"
	searchParam   = "search"
)

var errUnknownOrdering = "campo de ordenação desconhecido"

// listQuery holds the query parameters shared by every list endpoint.
type listQuery struct {
	Page     core.PageRequest
	Search   string
	Ordering []core.DBOrdering
}

// bindListQuery reads `page`, `limit`, `search` and `ordering`.
// Ordering fields are JSON names, translated with columns ({json name: column}).
func bindListQuery(ctx echo.Context, columns map[string]string) (listQuery, error) {
	var q listQuery
	var err error
	if q.Page.Page, err = intParam(ctx, "page"); err != nil {
		return q, err
	}
	if q.Page.Limit, err = intParam(ctx, "limit"); err != nil {
		return q, err
	}
	q.Page.Clean()
	q.Search = core.CleanString(ctx.QueryParam(searchParam))
	q.Ordering, err = bindOrdering(ctx.QueryParam(orderingParam), columns)
	return q, err
}

func intParam(ctx echo.Context, name string) (int, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: name + " deve ser um número inteiro"})
	}
	return i, nil
}

func bindOrdering(val string, columns map[string]string) ([]core.DBOrdering, error) {
	if val == "" {
		return nil, nil
	}
	var orderings []core.DBOrdering
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		col, ok := columns[field]
		if !ok {
			return nil, core.NewValidationError(nil, core.FieldError{Field: orderingParam, Error: errUnknownOrdering + ": " + field})
		}
		orderings = append(orderings, core.DBOrdering{Field: col, Ascending: !descending})
	}
	return orderings, nil
}

// queryFilter matches a query parameter against a column.
type queryFilter struct {
	param  string
	column string
	parse  func(string) (interface{}, error)
}

func intFilter(param, column string) queryFilter {
	return queryFilter{param: param, column: column, parse: func(s string) (interface{}, error) {
		return strconv.ParseInt(s, 10, 64)
	}}
}

func stringFilter(param, column string) queryFilter {
	return queryFilter{param: param, column: column, parse: func(s string) (interface{}, error) {
		return core.CleanString(s), nil
	}}
}

func boolFilter(param, column string) queryFilter {
	return queryFilter{param: param, column: column, parse: func(s string) (interface{}, error) {
		return strconv.ParseBool(s)
	}}
}

func bindFilter(ctx echo.Context, filters []queryFilter) (core.Filter, error) {
	var f core.Filter
	for _, qf := range filters {
		val := ctx.QueryParam(qf.param)
		if val == "" {
			continue
		}
		v, err := qf.parse(val)
		if err != nil {
			return f, core.NewValidationError(nil, core.FieldError{Field: qf.param, Error: "valor inválido"})
		}
		f = f.Where(qf.column, v)
	}
	return f, nil
}

func parseInt64(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

func parseCode(s string) (string, error) {
	if s = strings.TrimSpace(s); s == "" {
		return "", errHttpNotFound
	}
	return s, nil
}

func pathID(ctx echo.Context, name string) (int64, error) {
	return parseInt64(ctx.Param(name))
}

type validatable interface {
	Validate(*validator.Validate) error
}

// bindValid binds the request body to v and validates it.
func bindValid(ctx echo.Context, v validatable, validate *validator.Validate) error {
	if err := ctx.Bind(v); err != nil {
		return errors.Wrap(err, "binding request")
	}
	return v.Validate(validate)
}
