package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

func TestNewEntry(t *testing.T) {
	usr := user.User{ID: 7, Username: "ana", Role: user.RoleSecretaria}
	boom, other := errors.New("boom"), errors.New("other")

	e := newEntry([]interface{}{boom, usr, map[string]interface{}{"ra": "24000001"}, other, 42, user.User{ID: 8}})
	assert.Equal(t, boom, e.err)
	assert.Equal(t, map[string]interface{}{
		"ra":   "24000001",
		"role": user.RoleSecretaria,
		"args": []interface{}{"other", 42},
	}, e.extras)

	p, ok := rollbar.PersonFromContext(e.ctx)
	require.True(t, ok)
	assert.Equal(t, &rollbar.Person{Id: "7", Username: "ana"}, p)

	e = newEntry(nil)
	assert.Nil(t, e.err)
	assert.Empty(t, e.extras)
	_, ok = rollbar.PersonFromContext(e.ctx)
	assert.False(t, ok)
}

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true})
	defer func() { _ = l.Close() }()

	l.Error("falhou", errors.New("boom"), user.User{ID: 7, Username: "ana"})
	l.Info("pronto")
	assert.Equal(t, "falhou\nboom\npronto\n", buf.String())
}
