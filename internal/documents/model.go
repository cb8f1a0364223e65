package documents

import "time"

// Document represents an uploaded source document owned by a firm.
type Document struct {
	ID            string
	FirmID        string
	UploadedBy    string
	FileName      string
	MimeType      string
	SizeBytes     int64
	StorageKey    string
	ExtractedText string
	ExtractedAt   *time.Time
	UploadedAt    time.Time
}
