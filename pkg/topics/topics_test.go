// pkg/topics/topics_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test topic loading, lookup and rendering

package topics_test

import (
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"ignore.md":         {Data: []byte("# Ignoring\n\nPatterns.")},
		"option-force.md":   {Data: []byte("# --force\n")},
		"notes.txt":         {Data: []byte("plain notes")},
		"config.txxt":       {Data: []byte("Configuration Guide")},
		"nested/scripts.md": {Data: []byte("# Scripts")},
		"data/ignored.json": {Data: []byte("{}")},
	}
}

func TestLoad(t *testing.T) {
	t.Run("default_extensions", func(t *testing.T) {
		m, err := topics.Load(testFS(), topics.Options{})
		require.NoError(t, err)

		assert.Equal(t, []string{"ignore", "notes", "option-force", "scripts"}, m.List())
	})

	t.Run("custom_extensions", func(t *testing.T) {
		m, err := topics.Load(testFS(), topics.Options{Extensions: []string{".txxt"}})
		require.NoError(t, err)

		assert.Equal(t, []string{"config"}, m.List())
	})
}

func TestGet(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		expected string
		found    bool
	}{
		{"exact_name", "ignore", "ignore", true},
		{"flag_spelling", "--force", "option-force", true},
		{"short_flag_prefix", "-force", "option-force", true},
		{"bare_option_name", "force", "option-force", true},
		{"unknown", "nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, ok := m.Get(tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestRender(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	out, err := m.Render("ignore")
	require.NoError(t, err)
	assert.Equal(t, "# Ignoring\n\nPatterns.", out)

	_, err = m.Render("nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestIndex(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	out := m.Index("homer")
	assert.Contains(t, out, "Available help topics:\n  ignore\n  notes\n  scripts\n")
	assert.Contains(t, out, "Option topics:\n  --force\n")
	assert.Contains(t, out, "'homer topics <topic>'")

	empty, err := topics.Load(fstest.MapFS{}, topics.Options{})
	require.NoError(t, err)
	assert.Equal(t, "No help topics available.\n", empty.Index("homer"))
}

func TestDefault(t *testing.T) {
	m, err := topics.Default(nil)
	require.NoError(t, err)

	for _, name := range []string{"ignore", "conflicts", "scripts", "config", "option-dry-run"} {
		_, ok := m.Get(name)
		assert.True(t, ok, "missing topic %s", name)
	}
}

func TestGlamourRenderer(t *testing.T) {
	r := &topics.GlamourRenderer{Style: "notty", Width: 60}

	t.Run("non_markdown_unchanged", func(t *testing.T) {
		assert.Equal(t, "plain notes", r.Render("plain notes", ".txt"))
	})

	t.Run("markdown_rendered", func(t *testing.T) {
		out := r.Render("# Title\n\nSome *text*.", ".md")
		assert.Contains(t, out, "Title")
		assert.Contains(t, out, "text")
		assert.NotEqual(t, "# Title\n\nSome *text*.", out)
	})
}
