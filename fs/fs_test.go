package appfs

import (
	"io/fs"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	files := []string{
		path.Join(EmailTemplatesDir, "_base.gohtml"),
		path.Join(EmailTemplatesDir, "_base.txt"),
		path.Join(EmailTemplatesDir, "password_reset.gohtml"),
		path.Join(EmailTemplatesDir, "password_reset.txt"),
		path.Join(MigrationsDir, "00001_initial.sql"),
		CommonPasswords,
	}
	for _, name := range files {
		t.Run(name, func(t *testing.T) {
			b, err := fs.ReadFile(FS, name)
			require.NoError(t, err)
			assert.NotEmpty(t, b)
		})
	}
}
