package highlight

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/dzielazebrane/archiwum/internal/domain"
)

var (
	paragraphSplit = regexp.MustCompile(`\n{2,}`)
	footnoteRef    = regexp.MustCompile(`\[(\d+)\]`)
)

// FormatContent turns stored document text into display HTML. Content that
// already carries block markup is returned as-is; plain text is escaped and
// split into paragraphs on blank lines, with single newlines kept as <br>.
func FormatContent(text string) string {
	if strings.Contains(text, "<p>") || strings.Contains(text, "<div>") {
		return text
	}

	escaped := html.EscapeString(strings.TrimSpace(text))

	var paragraphs []string
	for _, p := range paragraphSplit.Split(escaped, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, "<p>"+strings.ReplaceAll(p, "\n", "<br>\n")+"</p>")
	}
	return strings.Join(paragraphs, "\n")
}

// ApplyFootnotes replaces [N] markers in document HTML with superscript
// anchors carrying the footnote text as a tooltip, and appends the footnote
// list. HTML with no footnotes passes through untouched.
func ApplyFootnotes(htmlText string, footnotes []domain.Footnote) string {
	if len(footnotes) == 0 {
		return htmlText
	}

	byNumber := make(map[int]string, len(footnotes))
	for _, fn := range footnotes {
		byNumber[fn.Number] = html.EscapeString(fn.Content)
	}

	out := footnoteRef.ReplaceAllStringFunc(htmlText, func(marker string) string {
		n, err := strconv.Atoi(footnoteRef.FindStringSubmatch(marker)[1])
		if err != nil {
			return marker
		}
		tooltip := ""
		if content, ok := byNumber[n]; ok {
			tooltip = fmt.Sprintf(` data-tooltip="%s"`, content)
		}
		return fmt.Sprintf(`<sup class="footnote-ref"><a href="#fn-%d" id="fnref-%d"%s>%d</a></sup>`, n, n, tooltip, n)
	})

	var b strings.Builder
	b.WriteString(out)
	b.WriteString(`<div class="footnotes"><hr><ol>`)
	for _, fn := range footnotes {
		fmt.Fprintf(&b, `<li id="fn-%d">%s <a href="#fnref-%d" class="footnote-back">&uarr;</a></li>`,
			fn.Number, byNumber[fn.Number], fn.Number)
	}
	b.WriteString(`</ol></div>`)
	return b.String()
}
