package tui

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/alecthomas/chroma/v2/quick"

	"github.com/jonwraymond/playground/console"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// highlight renders snippet source with terminal colours. The plain source
// is returned if highlighting fails.
func highlight(src string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, src, "javascript", "terminal256", "monokai"); err != nil {
		return src
	}
	return b.String()
}

// fixtureText renders the fixture markup as Markdown.
func fixtureText(html string) string {
	md, err := mdConverter.ConvertString(html)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

// transcriptText renders entries one per line, styled by kind.
func transcriptText(entries console.Transcript) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = kindStyle(e.Kind).Render(e.Text)
	}
	return strings.Join(lines, "\n")
}
