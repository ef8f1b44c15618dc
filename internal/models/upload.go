package models

const ContentTypePDF = "application/pdf"

// UploadedFile is the résumé a user has selected but not yet analyzed.
type UploadedFile struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}
