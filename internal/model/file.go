package model

import "time"

// File status values.
const (
	FileStatusUploaded = "uploaded"
	FileStatusParsed   = "parsed"
)

// File is an uploaded document. Metadata lives in PostgreSQL, bytes in the blob store.
type File struct {
	ID            string         `json:"id"`
	Filename      string         `json:"filename"`
	OriginalName  string         `json:"original_name"`
	StoragePath   string         `json:"storage_path"`
	Size          int64          `json:"size"`
	ContentType   string         `json:"content_type"`
	UserID        string         `json:"user_id"`
	Status        string         `json:"status"`
	Parsed        bool           `json:"parsed"`
	ParsedContent *ParsedContent `json:"parsed_content,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ParsedContent is the text extracted from a document, one section per page.
type ParsedContent struct {
	Sections []ParsedSection `json:"sections"`
	Metadata map[string]any  `json:"metadata"`
}

// ParsedSection is the text of a single page.
type ParsedSection struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}
