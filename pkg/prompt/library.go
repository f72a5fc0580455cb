package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Task template names.
const (
	IdeaGeneration      = "idea_generation"
	MarketAnalysis      = "market_analysis"
	TechnicalEvaluation = "technical_evaluation"
	BusinessPlan        = "business_plan"
)

const templateExt = ".tmpl"

//go:embed templates/*.tmpl
var embedded embed.FS

// TaskData is the data every task template renders against. Unused fields stay empty.
type TaskData struct {
	Idea                string
	Constraints         string
	Industry            string
	TechnologyFocus     string
	MarketAnalysis      string
	TechnicalEvaluation string
}

// Library holds the task templates. A file named <name>.tmpl in the override directory
// replaces the embedded default of the same name.
type Library struct {
	templates map[string]*Template
}

// LoadLibrary loads all embedded templates, then applies overrides from dir when dir is set.
func LoadLibrary(dir string) (*Library, error) {
	lib := &Library{templates: make(map[string]*Template)}

	entries, err := fs.ReadDir(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), templateExt)
		data, err := embedded.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded template %q: %w", name, err)
		}
		tpl, err := NewTemplateFromString(name, string(data), nil)
		if err != nil {
			return nil, err
		}
		lib.templates[name] = tpl
	}

	if strings.TrimSpace(dir) == "" {
		return lib, nil
	}
	for name := range lib.templates {
		path := filepath.Join(dir, name+templateExt)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat prompt override %q: %w", path, err)
		}
		tpl, err := NewTemplate(path, nil)
		if err != nil {
			return nil, err
		}
		lib.templates[name] = tpl
	}
	return lib, nil
}

// Get returns the named template.
func (l *Library) Get(name string) (*Template, bool) {
	tpl, ok := l.templates[name]
	return tpl, ok
}

// Render renders the named template and returns the text with the template digest.
func (l *Library) Render(name string, data TaskData) (string, string, error) {
	tpl, ok := l.Get(name)
	if !ok {
		return "", "", fmt.Errorf("prompt template %q not found", name)
	}
	text, err := tpl.Render(data)
	if err != nil {
		return "", "", err
	}
	return text, tpl.Digest(), nil
}

// Names lists the loaded template names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload rereads every file-backed override.
func (l *Library) Reload() error {
	for _, tpl := range l.templates {
		if err := tpl.Reload(); err != nil {
			return err
		}
	}
	return nil
}
