package domain

import "time"

// Document is a single archival text. Documents are ingested out-of-band and
// are read-only for this service; the embedding column is filled by the
// external embedding pipeline.
type Document struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle,omitempty"`
	Content      string     `json:"content,omitempty"`
	Location     string     `json:"location,omitempty"`
	EventDate    *time.Time `json:"event_date,omitempty"`
	DocumentType string     `json:"document_type,omitempty"`
	Addressee    string     `json:"addressee,omitempty"`
	WordsCount   int        `json:"words_count,omitempty"`
	Slug         string     `json:"slug,omitempty"`
	VolumeID     *int64     `json:"volume_id,omitempty"`
}

const VolumeStatusPublished = "opublikowany"

// Volume groups documents. Only published volumes are visible to
// non-administrators.
type Volume struct {
	ID       int64  `json:"id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	YearFrom int    `json:"year_from,omitempty"`
	YearTo   int    `json:"year_to,omitempty"`
	Status   string `json:"status,omitempty"`
}

func (v Volume) Published() bool {
	return v.Status == VolumeStatusPublished
}

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

// Footnote is an editorial annotation referenced from document content by a
// [N] marker.
type Footnote struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// ViewedDocument is one entry of a user's recent view history.
type ViewedDocument struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug,omitempty"`
	DocumentType string    `json:"document_type,omitempty"`
	ViewedAt     time.Time `json:"viewed_at"`
}

// CorpusStats are aggregate numbers shown on the search landing surface.
type CorpusStats struct {
	Documents     int64    `json:"documents"`
	TotalWords    int64    `json:"total_words"`
	TotalChars    int64    `json:"total_chars"`
	DocumentTypes []string `json:"document_types"`
}
