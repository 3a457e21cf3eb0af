package rendering

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_NestedPairsCloseInReverse(t *testing.T) {
	b := NewBuilder()
	b.Open("div")
	b.Open("ul")
	b.Open("li")
	b.Text("x")
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.Equal(t, "<div><ul><li>x</li></ul></div>", b.String())
	assert.True(t, b.Balanced())
}

func TestBuilder_AttributesAreNotPushed(t *testing.T) {
	b := NewBuilder()
	b.Open(`div class="image-container" id="kanto"`)
	require.NoError(t, b.Close())

	assert.Equal(t, `<div class="image-container" id="kanto"></div>`, b.String())
}

func TestBuilder_TabSeparatedAttributes(t *testing.T) {
	b := NewBuilder()
	b.Open("td\tcolspan=\"2\"")
	require.NoError(t, b.Close())

	assert.Equal(t, "<td\tcolspan=\"2\"></td>", b.String())
}

func TestBuilder_CloseOnEmptyStackUnderflows(t *testing.T) {
	b := NewBuilder()
	b.Text("abc")

	err := b.Close()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var underflow *StackUnderflowError
	require.ErrorAs(t, err, &underflow)
	assert.Equal(t, 3, underflow.Offset)
	assert.Equal(t, "abc", b.String())
}

func TestBuilder_TextIsVerbatim(t *testing.T) {
	b := NewBuilder()
	b.Text(`<b>"&"</b>`)
	assert.Equal(t, `<b>"&"</b>`, b.String())
}

func TestBuilder_Depth(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, 0, b.Depth())
	b.Open("a")
	b.Open("b")
	assert.Equal(t, 2, b.Depth())
	assert.False(t, b.Balanced())
	b.CloseAll()
	assert.Equal(t, 0, b.Depth())
	assert.Equal(t, "<a><b></b></a>", b.String())
}

func TestBuilder_Document(t *testing.T) {
	tests := []struct {
		name       string
		stylesheet string
		wantLink   bool
	}{
		{"with stylesheet", "style.css", true},
		{"without stylesheet", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			b.OpenDocument("Pokedex", tt.stylesheet)
			b.Element("p", "hi")
			b.CloseDocument()

			out := b.String()
			assert.Contains(t, out, "<title>Pokedex</title>")
			assert.Contains(t, out, "<p>hi</p></body></html>")
			if tt.wantLink {
				assert.Contains(t, out, `<link rel="stylesheet" href="style.css">`)
			} else {
				assert.NotContains(t, out, "<link")
			}
		})
	}
}

func TestBuilder_CloseDocumentDoesNotCloseOpenTags(t *testing.T) {
	b := NewBuilder()
	b.OpenDocument("t", "")
	b.Open("div")
	b.CloseDocument()

	assert.False(t, b.Balanced())
	assert.NotContains(t, b.String(), "</div>")
}
