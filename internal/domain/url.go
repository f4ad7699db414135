package domain

import (
	"time"
)

// URL is a persisted mapping between one original URL and one short code.
// Records are immutable once created; there is no update or delete path.
type URL struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OriginalURL string    `gorm:"type:text;not null;uniqueIndex:urls_original_url_key" json:"original_url"`
	ShortCode   string    `gorm:"type:varchar(8);not null;uniqueIndex:urls_short_code_key" json:"short_code"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (URL) TableName() string {
	return "urls"
}

// CreateURLResponse is returned by GET /create
type CreateURLResponse struct {
	ShortURL string `json:"short_url"`
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
