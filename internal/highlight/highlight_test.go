package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	t.Run("marks matching terms case-insensitively", func(t *testing.T) {
		got := Snippet("Prymas o narodzie", "prymas")
		assert.Equal(t, `<mark class="search-hl">Prymas</mark> o narodzie`, got)
	})

	t.Run("escapes before marking", func(t *testing.T) {
		got := Snippet("wiara <b>nadzieja</b>", "nadzieja")
		assert.NotContains(t, got, "<b>")
		assert.Contains(t, got, "&lt;b&gt;")
		assert.Contains(t, got, markOpen+"nadzieja"+markClose)
	})

	t.Run("no terms returns escaped text unchanged", func(t *testing.T) {
		got := Snippet("tekst & znak", "")
		assert.Equal(t, "tekst &amp; znak", got)
	})

	t.Run("no-term output is stable when fed back in", func(t *testing.T) {
		once := Snippet("zwykły tekst bez znaczników", "")
		twice := Snippet(once, "")
		assert.Equal(t, once, twice)
	})

	t.Run("truncates long text to the rune limit", func(t *testing.T) {
		long := strings.Repeat("ą", 300)
		got := Snippet(long, "")
		assert.Equal(t, strings.Repeat("ą", 200)+"...", got)
	})

	t.Run("truncation counts runes not bytes", func(t *testing.T) {
		exact := strings.Repeat("ł", 200)
		assert.Equal(t, exact, Snippet(exact, ""))
	})

	t.Run("regex metacharacters in terms are literal", func(t *testing.T) {
		got := Snippet("cena (netto)", "(netto)")
		assert.Contains(t, got, markOpen+"(netto)"+markClose)
	})
}

func TestDocument(t *testing.T) {
	t.Run("marks text between tags", func(t *testing.T) {
		got := Document("<p>Prymas nauczał</p>", "prymas")
		assert.Equal(t, `<p><mark class="search-hl">Prymas</mark> nauczał</p>`, got)
	})

	t.Run("tags and attributes stay untouched", func(t *testing.T) {
		in := `<a href="/prymas" title="prymas">o prymasie</a>`
		got := Document(in, "prymas")
		assert.Contains(t, got, `href="/prymas"`)
		assert.Contains(t, got, `title="prymas"`)
		assert.Contains(t, got, markOpen+"prymas"+markClose+"ie")
	})

	t.Run("no terms passes html through", func(t *testing.T) {
		in := "<p>bez zmian</p>"
		assert.Equal(t, in, Document(in, ""))
	})

	t.Run("multiple terms across segments", func(t *testing.T) {
		got := Document("<p>wiara</p><p>nadzieja</p>", "wiara nadzieja")
		assert.Equal(t,
			"<p>"+markOpen+"wiara"+markClose+"</p><p>"+markOpen+"nadzieja"+markClose+"</p>",
			got)
	})

	t.Run("unterminated tag copied verbatim", func(t *testing.T) {
		got := Document("tekst <p class=", "tekst")
		assert.Equal(t, markOpen+"tekst"+markClose+" <p class=", got)
	})
}
