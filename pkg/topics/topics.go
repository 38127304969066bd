// Package topics serves homer's long-form help pages. Topics are markdown
// files compiled into the binary and read through an fs.FS, so tests can
// substitute their own set.
package topics

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/homer/pkg/errors"
)

//go:embed docs/*.md
var embedded embed.FS

// Topic is one help page
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Manager holds the loaded topics
type Manager struct {
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
}

// Options configures a Manager
type Options struct {
	// Extensions considered topics, default [".md", ".txt"]
	Extensions []string

	// Renderer formats content for display, default PlainRenderer
	Renderer Renderer
}

// Default loads the topics shipped with homer
func Default(renderer Renderer) (*Manager, error) {
	sub, err := fs.Sub(embedded, "docs")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "embedded topics missing")
	}
	return Load(sub, Options{Renderer: renderer})
}

// Load reads every topic file in fsys
func Load(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".md", ".txt"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !m.supported(path.Ext(p)) {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		m.topics[name] = &Topic{Name: name, Path: p, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrIO, "failed to scan topics")
	}
	return m, nil
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Get retrieves a topic by name. Flag spellings ("--force") resolve to
// their option topic ("option-force").
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")

	if topic, ok := m.topics[name]; ok {
		return topic, true
	}
	topic, ok := m.topics["option-"+name]
	return topic, ok
}

// List returns topic names in alphabetical order
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the named topic formatted for display
func (m *Manager) Render(name string) (string, error) {
	topic, ok := m.Get(name)
	if !ok {
		return "", errors.Newf(errors.ErrNotFound, "no help topic named %q", name).
			WithDetail("available", m.List())
	}
	return m.renderer.Render(topic.Content, path.Ext(topic.Path)), nil
}

// Index renders the topic listing, option topics shown as flags
func (m *Manager) Index(program string) string {
	var general, options []string
	for _, name := range m.List() {
		if strings.HasPrefix(name, "option-") {
			options = append(options, "--"+strings.TrimPrefix(name, "option-"))
			continue
		}
		general = append(general, name)
	}

	if len(general) == 0 && len(options) == 0 {
		return "No help topics available.\n"
	}

	var b strings.Builder
	b.WriteString("Available help topics:\n")
	for _, name := range general {
		b.WriteString("  " + name + "\n")
	}
	if len(options) > 0 {
		b.WriteString("\nOption topics:\n")
		for _, name := range options {
			b.WriteString("  " + name + "\n")
		}
	}
	b.WriteString("\nUse '" + program + " topics <topic>' to read about a specific topic.\n")
	return b.String()
}
