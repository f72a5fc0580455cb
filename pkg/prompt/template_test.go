package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
)

func TestTemplateRender(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "greeting.tmpl")
	err := os.WriteFile(templatePath, []byte("  hello {{ .Name }} - {{ toUpper .Role }}\n"), 0o600)
	assert.NoError(t, err, "write template should succeed")

	tpl, err := NewTemplate(templatePath, template.FuncMap{"toUpper": strings.ToUpper})
	assert.NoError(t, err, "NewTemplate should not error")
	assert.Equal(t, "greeting", tpl.Name())
	assert.Equal(t, templatePath, tpl.Source())

	out, err := tpl.Render(map[string]any{"Name": "Alice", "Role": "strategist"})
	assert.NoError(t, err, "Render should not error")
	assert.Equal(t, "hello Alice - STRATEGIST", out, "rendered output is trimmed")
}

func TestTemplateMissingKey(t *testing.T) {
	tpl, err := NewTemplateFromString("strict", "{{ .Missing }}", nil)
	assert.NoError(t, err)
	assert.Equal(t, "embedded", tpl.Source())

	_, err = tpl.Render(map[string]any{})
	assert.Error(t, err, "missing keys fail rendering")
}

func TestTemplateReload(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "reload.tmpl")
	assert.NoError(t, os.WriteFile(templatePath, []byte("v1"), 0o600))

	tpl, err := NewTemplate(templatePath, nil)
	assert.NoError(t, err, "NewTemplate should not error")

	out, err := tpl.Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, "v1", out)
	digestV1 := tpl.Digest()
	assert.NotEmpty(t, digestV1)

	assert.NoError(t, os.WriteFile(templatePath, []byte("v2"), 0o600))
	assert.NoError(t, tpl.Reload(), "Reload should not error")

	out, err = tpl.Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, "v2", out, "reloaded render should be v2")
	assert.NotEqual(t, digestV1, tpl.Digest(), "digest should change after reload")
}

func TestNewTemplateErrors(t *testing.T) {
	_, err := NewTemplate("", nil)
	assert.Error(t, err)

	_, err = NewTemplate(filepath.Join(t.TempDir(), "absent.tmpl"), nil)
	assert.Error(t, err)

	_, err = NewTemplateFromString("broken", "{{ .Open ", nil)
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest("a", "b"), Digest("a", "b"))
	assert.NotEqual(t, Digest("ab", "c"), Digest("a", "bc"))
	assert.Len(t, Digest(), 64)
}
