package models

// Dataset represents an uploaded, labeled dataset as returned by the scanning backend.
type Dataset struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	FilePath    string    `json:"file_path"`
	UploadDate  Timestamp `json:"upload_date"`
	OwnerID     int64     `json:"owner_id"`
}

// DescriptionOr returns the description, or fallback when the dataset has none.
func (d Dataset) DescriptionOr(fallback string) string {
	if d.Description == nil || *d.Description == "" {
		return fallback
	}
	return *d.Description
}

// ShortPath returns the last 30 characters of the stored file path prefixed
// with "...", or "N/A" when no path is known.
func (d Dataset) ShortPath() string {
	if d.FilePath == "" {
		return "N/A"
	}
	runes := []rune(d.FilePath)
	if len(runes) <= 30 {
		return "..." + d.FilePath
	}
	return "..." + string(runes[len(runes)-30:])
}
