package domain

import "time"

// DocumentHit is the search projection of a document: the listing columns
// plus a raw (unescaped) snippet cut from the start of the content.
type DocumentHit struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle,omitempty"`
	Location     string     `json:"location,omitempty"`
	EventDate    *time.Time `json:"event_date,omitempty"`
	DocumentType string     `json:"document_type,omitempty"`
	Addressee    string     `json:"addressee,omitempty"`
	WordsCount   int        `json:"words_count,omitempty"`
	Slug         string     `json:"slug,omitempty"`
	VolumeID     *int64     `json:"volume_id,omitempty"`
	Snippet      string     `json:"snippet,omitempty"`
	Rank         float64    `json:"-"`
}

// RankedResult is one enriched search hit as returned to the caller.
// Score is the lexical rank on the plain path and the fused RRF score on the
// hybrid path; the sub-ranks are set only after fusion.
type RankedResult struct {
	DocumentHit
	Score        float64 `json:"score"`
	LexicalRank  int     `json:"lexical_rank,omitempty"`
	SemanticRank int     `json:"semantic_rank,omitempty"`
	Volume       *Volume `json:"volume,omitempty"`
	Tags         []Tag   `json:"tags"`
}
