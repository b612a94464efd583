package models

// Book is a single catalog record.
//
// Version is a row version used for optimistic concurrency: updates must
// carry the version they read, and a stale version is rejected as a conflict
// instead of silently overwriting a concurrent edit.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Version     int64  `json:"version"`
}
