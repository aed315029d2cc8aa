package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTML(t *testing.T) {
	doc := `<!DOCTYPE html>
<html><head><title>export</title><style>p { color: red }</style></head>
<body>
<h1>Some Title</h1>
<p>Le Soir* 12 jan 2020, p. 4</p>
<p>By <b>Someone</b></p>
<p>Summary of the piece</p>
<div>
  <p>Body paragraph one.</p>
  <p>Body   paragraph
  two.</p>
</div>
<script>alert("nope")</script>
</body></html>`

	paragraphs, err := parseHTML([]byte(doc))
	require.NoError(t, err)

	require.Len(t, paragraphs, 6)
	assert.Equal(t, "Some Title", paragraphs[0])
	assert.Equal(t, "Le Soir* 12 jan 2020, p. 4", paragraphs[1])
	assert.Equal(t, "By Someone", paragraphs[2])
	// inner whitespace collapsed
	assert.Equal(t, "Body paragraph two.", paragraphs[5])

	// script and style content never leaks into paragraphs
	for _, p := range paragraphs {
		assert.NotContains(t, p, "alert")
		assert.NotContains(t, p, "color")
	}
}

func TestParseHTML_NestedBlocks(t *testing.T) {
	doc := `<div><div><p>inner one</p></div><p>inner two</p></div>`

	paragraphs, err := parseHTML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"inner one", "inner two"}, paragraphs)
}

func TestParseHTML_NoBlocks(t *testing.T) {
	paragraphs, err := parseHTML([]byte(`just loose text`))
	require.NoError(t, err)
	assert.Empty(t, paragraphs)
}
