package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPostMarkdown(t *testing.T) {
	got, err := RenderPost("## Open mat\n\nEvery **Saturday** at noon.")
	require.NoError(t, err)

	assert.Contains(t, got, "<h2>Open mat</h2>")
	assert.Contains(t, got, "<strong>Saturday</strong>")
}

func TestRenderPostPassesEditorHTML(t *testing.T) {
	got, err := RenderPost(`<p>Belt promotion recap</p><script>track()</script>`)
	require.NoError(t, err)

	assert.Contains(t, got, "<p>Belt promotion recap</p>")
	assert.NotContains(t, got, "script")
}
