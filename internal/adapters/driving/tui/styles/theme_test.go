package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for name, c := range map[string]lipgloss.Color{
		"primary":    theme.Primary,
		"secondary":  theme.Secondary,
		"foreground": theme.Foreground,
		"muted":      theme.Muted,
		"success":    theme.Success,
		"warning":    theme.Warning,
		"error":      theme.Error,
		"border":     theme.Border,
	} {
		assert.NotEmpty(t, string(c), name)
	}
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate accent %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	assert.Equal(t, theme, NewStyles(theme).Theme())

	fromNil := NewStyles(nil)
	require.NotNil(t, fromNil.Theme())
	assert.Equal(t, DefaultTheme(), fromNil.Theme())
}

func TestStyles_RenderKeepsText(t *testing.T) {
	s := DefaultStyles()

	for _, style := range []lipgloss.Style{s.Title, s.Header, s.Cell, s.Overdue, s.Panel} {
		assert.Contains(t, style.Render("Whole Milk"), "Whole Milk")
	}
}
