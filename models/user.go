package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row of t_users.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
