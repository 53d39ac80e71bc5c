package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
)

type room struct {
	ID       int64  `json:"id" db:"id"`
	Code     string `json:"codigo" db:"codigo"`
	Name     string `json:"nome" db:"nome"`
	Capacity int    `json:"capacidade" db:"capacidade"`
	core.Timestamps
}

func (r *room) Refine() []core.FieldError {
	if r.Capacity < 0 {
		return []core.FieldError{{Field: "capacidade", Error: "capacidade não pode ser negativa"}}
	}
	return nil
}

var roomSchema = core.Schema[int64, room]{
	Table:  "salas",
	Key:    "id",
	KeyOf:  func(r *room) int64 { return r.ID },
	SetSeq: func(r *room, id int64) { r.ID = id },
	Unique: [][]string{{"codigo"}},
	Search: []string{"codigo", "nome"},
}

func newRoomService(t *testing.T) *core.Service[int64, room] {
	t.Helper()
	svc := core.NewService[int64, room](
		inmemdb.NewTable(inmemdb.Open(), roomSchema),
		core.DBOrdering{Field: "nome", Ascending: true},
	)
	for _, r := range []room{{Code: "B1", Name: "Lab", Capacity: 20}, {Code: "A1", Name: "Auditório", Capacity: 200}, {Code: "A2", Name: "Sala 2", Capacity: 40}} {
		_, err := svc.Create(context.Background(), r)
		require.NoError(t, err)
	}
	return svc
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	defer func() { core.NowFunc = time.Now }()

	svc := newRoomService(t)

	got, err := svc.Create(ctx, room{Code: "C1", Name: "Sala C", Capacity: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)

	t.Run("duplicate", func(t *testing.T) {
		_, err := svc.Create(ctx, room{Code: "C1", Name: "Outra"})
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, core.ErrDuplicate, verr.Err)
		assert.Equal(t, "codigo", verr.Fields[0].Field)
	})

	t.Run("refined", func(t *testing.T) {
		_, err := svc.Create(ctx, room{Code: "C2", Name: "Sala", Capacity: -1})
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, core.ErrInvalidInput, verr.Err)
		assert.Equal(t, "capacidade", verr.Fields[0].Field)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := newRoomService(t)

	page, err := svc.List(ctx, core.Filter{}, core.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Auditório", page.Data[0].Name)
	assert.Equal(t, "Lab", page.Data[1].Name)

	page, err = svc.List(ctx, core.Filter{}.Matching("a", roomSchema.Search...).Where("capacidade", 40), core.All)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "A2", page.Data[0].Code)

	page, err = svc.List(ctx, core.Filter{}, core.All, core.DBOrdering{Field: "capacidade", Ascending: false})
	require.NoError(t, err)
	assert.Equal(t, "A1", page.Data[0].Code)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newRoomService(t)

	got, err := svc.Update(ctx, 1, func(r *room) { r.Capacity = 25 })
	require.NoError(t, err)
	assert.Equal(t, 25, got.Capacity)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	_, err = svc.Update(ctx, 1, func(r *room) { r.Code = "A1" })
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, core.ErrDuplicate, verr.Err)

	_, err = svc.Update(ctx, 99, func(r *room) {})
	assert.True(t, core.IsNotFound(err))
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newRoomService(t)

	require.NoError(t, svc.Delete(ctx, 1, 2))
	_, err := svc.Get(ctx, 1)
	assert.True(t, core.IsNotFound(err))

	rec, err := core.FindOne(ctx, svc.Repo(), core.Filter{}.Where("codigo", "A2"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.ID)

	_, err = core.FindOne(ctx, svc.Repo(), core.Filter{}.Where("codigo", "B1"))
	assert.Equal(t, core.ErrNotFound, err)
}

func TestCountBy(t *testing.T) {
	ctx := context.Background()
	svc := newRoomService(t)
	count := core.CountBy[int64, room, int](svc.Repo(), "capacidade")

	n, err := count(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = count(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
