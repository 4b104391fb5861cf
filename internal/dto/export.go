package dto

import "time"

// ExportResponse points at a signed, expiring download for a generated file.
type ExportResponse struct {
	URL       string    `json:"url"`
	Format    string    `json:"format"`
	ExpiresAt time.Time `json:"expires_at"`
}
