package models

import "time"

// UploadRecord is one entry in the upload audit history.
type UploadRecord struct {
	ID            string     `json:"id"`
	Filename      string     `json:"filename"`
	FileHash      string     `json:"file_hash"`
	FileSizeBytes int64      `json:"file_size_bytes"`
	KeywordsCount int        `json:"keywords_count"`
	NewKeywords   int        `json:"new_keywords"`
	Mode          IngestMode `json:"mode"`
	UploadedAt    time.Time  `json:"uploaded_at"`
}

// OperationResult is the structured outcome of an upload or reset
// operation. Clients treat Success=false as a recoverable error: display
// the message, keep existing view state.
type OperationResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AffectedCount int    `json:"affected_count,omitempty"`
}
