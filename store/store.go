// Package store persists songs, reviews, playlists and users.
package store

import (
	"context"
	"errors"

	"musicapp/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("store: duplicate record")
	// ErrMissingReference is returned when a write points at a record that no longer exists.
	ErrMissingReference = errors.New("store: referenced record does not exist")
)

// Store is the persistence contract used by the request handlers.
//
// Deleting a song removes its reviews and its playlist memberships. Adding a song to a
// playlist twice is the same as adding it once, and removing a non-member is a no-op.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	ListSongs(ctx context.Context, q models.SongQuery) ([]models.Song, int, error)
	GetSong(ctx context.Context, id uuid.UUID) (models.Song, error)
	CreateSong(ctx context.Context, song *models.Song) error
	UpdateSong(ctx context.Context, song *models.Song) error
	DeleteSong(ctx context.Context, id uuid.UUID) error

	ListReviews(ctx context.Context, songID uuid.UUID) ([]models.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id uuid.UUID) error

	ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, id uuid.UUID) (models.Playlist, error)
	GetOwnedPlaylist(ctx context.Context, id, ownerID uuid.UUID) (models.Playlist, error)
	CreatePlaylist(ctx context.Context, playlist *models.Playlist, songIDs []uuid.UUID) error
	UpdatePlaylist(ctx context.Context, playlist *models.Playlist, songIDs []uuid.UUID) error
	DeletePlaylist(ctx context.Context, id uuid.UUID) error
	PlaylistSongs(ctx context.Context, playlistID uuid.UUID) ([]models.Song, error)
	AddSongToPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error
}
