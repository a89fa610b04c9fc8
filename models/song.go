package models

import (
	"time"

	"github.com/google/uuid"
)

// Song represents a row of t_songs. UserID is nil for songs created before
// ownership was recorded.
type Song struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Artist      string     `json:"artist"`
	Genre       string     `json:"genre"`
	ReleaseDate time.Time  `json:"release_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UserID      *uuid.UUID `json:"user_id"`
}

// DateLayout is the wire format of Song.ReleaseDate.
const DateLayout = "2006-01-02"

func (s Song) String() string {
	return s.Title + " by " + s.Artist
}

// SongQuery filters and pages the song index.
type SongQuery struct {
	Search string
	Limit  int
	Offset int
}
