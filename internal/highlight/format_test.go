package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dzielazebrane/archiwum/internal/domain"
)

func TestFormatContent(t *testing.T) {
	t.Run("plain text becomes paragraphs on blank lines", func(t *testing.T) {
		got := FormatContent("pierwszy akapit\n\ndrugi akapit")
		assert.Equal(t, "<p>pierwszy akapit</p>\n<p>drugi akapit</p>", got)
	})

	t.Run("single newline becomes br", func(t *testing.T) {
		got := FormatContent("pierwsza linia\ndruga linia")
		assert.Equal(t, "<p>pierwsza linia<br>\ndruga linia</p>", got)
	})

	t.Run("existing block markup passes through", func(t *testing.T) {
		in := "<p>już sformatowane & z encją</p>"
		assert.Equal(t, in, FormatContent(in))
	})

	t.Run("plain text is escaped", func(t *testing.T) {
		got := FormatContent("mniejsze < większe")
		assert.Equal(t, "<p>mniejsze &lt; większe</p>", got)
	})

	t.Run("surplus blank lines collapse", func(t *testing.T) {
		got := FormatContent("a1\n\n\n\na2")
		assert.Equal(t, "<p>a1</p>\n<p>a2</p>", got)
	})
}

func TestApplyFootnotes(t *testing.T) {
	footnotes := []domain.Footnote{
		{Number: 1, Content: "pierwsza uwaga"},
		{Number: 2, Content: `uwaga z "cudzysłowem"`},
	}

	t.Run("markers become superscript anchors", func(t *testing.T) {
		got := ApplyFootnotes("<p>tekst[1] dalej</p>", footnotes)
		assert.Contains(t, got, `<sup class="footnote-ref"><a href="#fn-1" id="fnref-1" data-tooltip="pierwsza uwaga">1</a></sup>`)
		assert.NotContains(t, got, "[1]")
	})

	t.Run("footnote list appended once", func(t *testing.T) {
		got := ApplyFootnotes("<p>tekst[1][2]</p>", footnotes)
		assert.Contains(t, got, `<div class="footnotes"><hr><ol>`)
		assert.Contains(t, got, `<li id="fn-1">pierwsza uwaga`)
		assert.Contains(t, got, `<li id="fn-2">`)
	})

	t.Run("tooltip content is escaped", func(t *testing.T) {
		got := ApplyFootnotes("<p>tekst[2]</p>", footnotes)
		assert.Contains(t, got, "&#34;cudzysłowem&#34;")
		assert.NotContains(t, got, `data-tooltip="uwaga z "cudzysłowem""`)
	})

	t.Run("marker without a known footnote keeps anchor without tooltip", func(t *testing.T) {
		got := ApplyFootnotes("<p>tekst[9]</p>", footnotes)
		assert.Contains(t, got, `<a href="#fn-9" id="fnref-9">9</a>`)
		assert.NotContains(t, got, `id="fnref-9" data-tooltip`)
	})

	t.Run("no footnotes passes through", func(t *testing.T) {
		in := "<p>tekst[1]</p>"
		assert.Equal(t, in, ApplyFootnotes(in, nil))
	})
}
