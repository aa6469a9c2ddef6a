package model

import "time"

// Document represents a tracked compliance document (license, certificate,
// insurance policy, filing).
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Issuer         string     `json:"issuer,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Status         Status     `json:"status"`
	FilePath       string     `json:"file_path,omitempty"`
	AISummary      string     `json:"ai_summary,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
