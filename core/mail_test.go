package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	appfs "github.com/trezcool/academia/fs"
)

func TestEmailMessage_Render(t *testing.T) {
	conf := &core.Config{TestMode: true, FrontendBaseURL: "http://front"}
	require.NoError(t, core.LoadEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf))

	msg := &core.EmailMessage{
		TemplateName: "password_reset",
		TemplateData: struct{ Username, Token, ExpiresIn string }{"ana", "tok", "3 dias"},
	}
	require.NoError(t, msg.Render())

	assert.Contains(t, msg.TextContent, "Olá,")
	assert.Contains(t, msg.TextContent, "Secretaria Acadêmica")
	assert.Contains(t, msg.TextContent, "http://front/redefinir-senha?token=tok")
	assert.Contains(t, msg.HTMLContent, "<html")
	assert.Contains(t, msg.HTMLContent, "<strong>ana</strong>")

	missing := &core.EmailMessage{TemplateName: "inexistente"}
	assert.Error(t, missing.Render())
}
