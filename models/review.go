package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a row of t_reviews. It is removed together with its song.
type Review struct {
	ID        uuid.UUID  `json:"id"`
	SongID    uuid.UUID  `json:"song_id"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    *uuid.UUID `json:"user_id"`
}

func (r Review) String() string {
	return fmt.Sprintf("Review %s: %d/%d", r.ID, r.Rating, MaxRating)
}
