package styles_test

import (
	"os"
	"testing"

	"github.com/arthur-debert/homer/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	for _, name := range []string{
		"Header", "Success", "Error", "Warning", "Muted",
		"Path", "Link", "Create", "Replace", "Skip", "Conflict",
		"DryRunBanner", "Bold",
	} {
		t.Run(name, func(t *testing.T) {
			_, exists := styles.StyleRegistry[name]
			assert.True(t, exists, "style %s should exist", name)
		})
	}
}

func TestGetStyle_Unknown(t *testing.T) {
	assert.Equal(t, "plain", styles.GetStyle("NoSuchStyle").Render("plain"))
}

func TestLoadStylesFromData(t *testing.T) {
	t.Cleanup(func() {
		// Restore the embedded registry for other tests
		require.NoError(t, styles.LoadStylesFromData(mustEmbedded(t)))
	})

	err := styles.LoadStylesFromData([]byte(`
colors:
  accent:
    light: "#000000"
    dark: "#ffffff"
styles:
  Accent:
    foreground: accent
    bold: true
`))
	require.NoError(t, err)
	assert.Len(t, styles.StyleRegistry, 1)
	assert.True(t, styles.GetStyle("Accent").GetBold())

	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))
}

func TestPainter(t *testing.T) {
	plain := styles.NewPainter(false)
	assert.Equal(t, "text", plain.Paint("Error", "text"))
	assert.False(t, plain.Enabled())

	styled := styles.NewPainter(true)
	assert.Contains(t, styled.Paint("Error", "text"), "text")
	assert.True(t, styled.Enabled())
}

func mustEmbedded(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("styles.yaml")
	require.NoError(t, err)
	return data
}
