package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

const contextObjectKey = "object"

// crudService is satisfied by core.Service and by the services embedding it.
type crudService[K comparable, T any] interface {
	Create(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id K) (T, error)
	List(ctx context.Context, filter core.Filter, page core.PageRequest, ordering ...core.DBOrdering) (core.Page[T], error)
	Update(ctx context.Context, id K, patch func(*T)) (T, error)
	Delete(ctx context.Context, ids ...K) error
}

type newPayload[N any, T any] interface {
	*N
	validatable
	Build() T
}

type updatePayload[U any, T any] interface {
	*U
	validatable
	Apply(*T)
}

// resource serves the list and detail endpoints of a record type.
type resource[K comparable, T any] struct {
	svc      crudService[K, T]
	validate *validator.Validate
	parseID  func(string) (K, error)
	columns  map[string]string // {json name: column}
	search   []string
	filters  []queryFilter
	// detail renders the record on retrieve; the record itself is rendered when nil.
	detail func(ctx context.Context, rec T) (interface{}, error)
}

func newResource[K comparable, T any](
	svc crudService[K, T],
	validate *validator.Validate,
	parseID func(string) (K, error),
	search []string,
	filters ...queryFilter,
) *resource[K, T] {
	var zero T
	return &resource[K, T]{
		svc:      svc,
		validate: validate,
		parseID:  parseID,
		columns:  core.Columns(zero),
		search:   search,
		filters:  filters,
	}
}

// register mounts the CRUD routes on g. The write routes go through write.
func (r *resource[K, T]) register(g *echo.Group, create, update echo.HandlerFunc, write ...echo.MiddlewareFunc) {
	g.GET("", r.list)
	g.GET("/:id", r.retrieve, r.load)
	if create != nil {
		g.POST("", create, write...)
	}
	if update != nil {
		wu := append(write[:len(write):len(write)], r.load)
		g.PUT("/:id", update, wu...)
		g.PATCH("/:id", update, wu...)
	}
	g.DELETE("/:id", r.destroy, append(write[:len(write):len(write)], r.load)...)
}

func (r *resource[K, T]) list(ctx echo.Context) error {
	q, err := bindListQuery(ctx, r.columns)
	if err != nil {
		return err
	}
	filter, err := bindFilter(ctx, r.filters)
	if err != nil {
		return err
	}
	filter = filter.Matching(q.Search, r.search...)

	page, err := r.svc.List(ctx.Request().Context(), filter, q.Page, q.Ordering...)
	if err != nil {
		return errors.Wrap(err, "listing records")
	}
	return ctx.JSON(http.StatusOK, page)
}

// load puts the record identified by the `id` path parameter in the context.
func (r *resource[K, T]) load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := r.parseID(ctx.Param("id"))
		if err != nil {
			return err
		}
		rec, err := r.svc.Get(ctx.Request().Context(), id)
		if err != nil {
			if core.IsNotFound(err) {
				return errHttpNotFound
			}
			return err
		}
		ctx.Set(contextObjectKey, rec)
		return next(ctx)
	}
}

func (r *resource[K, T]) object(ctx echo.Context) (T, K, error) {
	rec, ok := ctx.Get(contextObjectKey).(T)
	if !ok {
		var zero K
		return rec, zero, errors.New("object not found in echo.Context")
	}
	id, err := r.parseID(ctx.Param("id"))
	return rec, id, err
}

func (r *resource[K, T]) retrieve(ctx echo.Context) error {
	rec, _, err := r.object(ctx)
	if err != nil {
		return err
	}
	if r.detail == nil {
		return ctx.JSON(http.StatusOK, rec)
	}
	out, err := r.detail(ctx.Request().Context(), rec)
	if err != nil {
		return errors.Wrap(err, "loading relations")
	}
	return ctx.JSON(http.StatusOK, out)
}

func (r *resource[K, T]) destroy(ctx echo.Context) error {
	_, id, err := r.object(ctx)
	if err != nil {
		return err
	}
	if err := r.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// createHandler binds and validates a N payload, then creates the record it builds.
func createHandler[K comparable, T any, N any, PN newPayload[N, T]](r *resource[K, T]) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		data := PN(new(N))
		if err := bindValid(ctx, data, r.validate); err != nil {
			return err
		}
		rec, err := r.svc.Create(ctx.Request().Context(), data.Build())
		if err != nil {
			return errors.Wrap(err, "creating record")
		}
		return ctx.JSON(http.StatusCreated, rec)
	}
}

// updateHandler binds and validates a U payload, then patches the record with it.
func updateHandler[K comparable, T any, U any, PU updatePayload[U, T]](r *resource[K, T]) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		_, id, err := r.object(ctx)
		if err != nil {
			return err
		}
		data := PU(new(U))
		if err := bindValid(ctx, data, r.validate); err != nil {
			return err
		}
		rec, err := r.svc.Update(ctx.Request().Context(), id, data.Apply)
		if err != nil {
			return errors.Wrap(err, "updating record")
		}
		return ctx.JSON(http.StatusOK, rec)
	}
}
