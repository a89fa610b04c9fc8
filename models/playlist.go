package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist represents a row of t_playlist. Every playlist has exactly one owner.
type Playlist struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uuid.UUID `json:"user_id"`
}

// PlaylistSong represents a row of t_playlist_songs, keyed on (playlist_id, song_id).
type PlaylistSong struct {
	PlaylistID uuid.UUID `json:"playlist_id"`
	SongID     uuid.UUID `json:"song_id"`
}
