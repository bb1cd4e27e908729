package pg

import (
	"fmt"
	"strings"

	"github.com/dzielazebrane/archiwum/internal/domain"
)

// publishedVolumeFilter is the visibility predicate: non-administrators only
// see documents of published volumes. It is injected explicitly into every
// document query rather than applied as an ambient filter, so each query
// path shows its visibility rule.
const publishedVolumeFilter = `EXISTS (SELECT 1 FROM volumes pv WHERE pv.id = d.volume_id AND pv.status = '` + domain.VolumeStatusPublished + `')`

// filterClauses renders the conjunctive predicates of f and appends their
// bind args. withQuery controls the free-text predicate; semantic retrieval
// drops it and matches by vector distance instead. When the query predicate
// is present it always binds as $1 (nothing before it takes a parameter),
// which the rank expression in Search relies on.
func (s *Searcher) filterClauses(f domain.SearchFilter, withQuery bool, args []any) ([]string, []any) {
	var where []string

	if !f.IncludeUnpublished {
		where = append(where, publishedVolumeFilter)
	}
	if withQuery && f.HasQuery() {
		args = append(args, strings.TrimSpace(f.Query))
		where = append(where, fmt.Sprintf("d.search_vector @@ websearch_to_tsquery('%s', $%d)", s.language, len(args)))
	}
	if f.VolumeID != nil {
		args = append(args, *f.VolumeID)
		where = append(where, fmt.Sprintf("d.volume_id = $%d", len(args)))
	}
	if f.DocumentType != "" {
		args = append(args, f.DocumentType)
		where = append(where, fmt.Sprintf("d.document_type = $%d", len(args)))
	}
	if f.TagID != nil {
		args = append(args, *f.TagID)
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM document_tags dt WHERE dt.document_id = d.id AND dt.tag_id = $%d)", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		where = append(where, fmt.Sprintf("d.event_date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		where = append(where, fmt.Sprintf("d.event_date <= $%d", len(args)))
	}

	return where, args
}

func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}
