package model

import "time"

// User owns links and API keys. The link core only ever reads it.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
