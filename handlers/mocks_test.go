package handlers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"musicapp/models"
	"musicapp/store"

	"github.com/google/uuid"
)

// memStore is an in-memory store.Store with the same cascade rules as the schema.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]models.User
	songs     map[uuid.UUID]models.Song
	reviews   map[uuid.UUID]models.Review
	playlists map[uuid.UUID]models.Playlist
	members   map[models.PlaylistSong]bool

	pingErr error
	failErr error // returned by every write when set
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]models.User{},
		songs:     map[uuid.UUID]models.Song{},
		reviews:   map[uuid.UUID]models.Review{},
		playlists: map[uuid.UUID]models.Playlist{},
		members:   map[models.PlaylistSong]bool{},
	}
}

func (m *memStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *memStore) ListSongs(ctx context.Context, q models.SongQuery) ([]models.Song, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(q.Search)
	songs := []models.Song{}
	for _, s := range m.songs {
		if search != "" && !strings.Contains(strings.ToLower(s.Title), search) && !strings.Contains(strings.ToLower(s.Artist), search) {
			continue
		}
		songs = append(songs, s)
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].CreatedAt.After(songs[j].CreatedAt) })

	total := len(songs)
	if q.Limit > 0 {
		start := min(q.Offset, total)
		end := min(start+q.Limit, total)
		songs = songs[start:end]
	}
	return songs, total, nil
}

func (m *memStore) GetSong(ctx context.Context, id uuid.UUID) (models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.songs[id]
	if !ok {
		return models.Song{}, store.ErrNotFound
	}
	return s, nil
}

func (m *memStore) CreateSong(ctx context.Context, song *models.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	song.ID = uuid.New()
	song.CreatedAt = time.Now()
	m.songs[song.ID] = *song
	return nil
}

func (m *memStore) UpdateSong(ctx context.Context, song *models.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.songs[song.ID]; !ok {
		return store.ErrNotFound
	}
	m.songs[song.ID] = *song
	return nil
}

func (m *memStore) DeleteSong(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.songs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.songs, id)
	for rid, r := range m.reviews {
		if r.SongID == id {
			delete(m.reviews, rid)
		}
	}
	for key := range m.members {
		if key.SongID == id {
			delete(m.members, key)
		}
	}
	return nil
}

func (m *memStore) ListReviews(ctx context.Context, songID uuid.UUID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reviews := []models.Review{}
	for _, r := range m.reviews {
		if r.SongID == songID {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

func (m *memStore) GetReview(ctx context.Context, id uuid.UUID) (models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return models.Review{}, store.ErrNotFound
	}
	return r, nil
}

func (m *memStore) CreateReview(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if review.Rating < models.MinRating || review.Rating > models.MaxRating {
		return errors.New("rating check constraint")
	}
	if _, ok := m.songs[review.SongID]; !ok {
		return store.ErrMissingReference
	}
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	m.reviews[review.ID] = *review
	return nil
}

func (m *memStore) UpdateReview(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.reviews[review.ID]; !ok {
		return store.ErrNotFound
	}
	m.reviews[review.ID] = *review
	return nil
}

func (m *memStore) DeleteReview(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.reviews[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *memStore) ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	playlists := []models.Playlist{}
	for _, p := range m.playlists {
		if p.UserID == ownerID {
			playlists = append(playlists, p)
		}
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].CreatedAt.After(playlists[j].CreatedAt) })
	return playlists, nil
}

func (m *memStore) GetPlaylist(ctx context.Context, id uuid.UUID) (models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[id]
	if !ok {
		return models.Playlist{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memStore) GetOwnedPlaylist(ctx context.Context, id, ownerID uuid.UUID) (models.Playlist, error) {
	p, err := m.GetPlaylist(ctx, id)
	if err != nil {
		return p, err
	}
	if p.UserID != ownerID {
		return models.Playlist{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memStore) CreatePlaylist(ctx context.Context, playlist *models.Playlist, songIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if err := m.checkSongs(songIDs); err != nil {
		return err
	}
	playlist.ID = uuid.New()
	playlist.CreatedAt = time.Now()
	m.playlists[playlist.ID] = *playlist
	for _, id := range songIDs {
		m.members[models.PlaylistSong{PlaylistID: playlist.ID, SongID: id}] = true
	}
	return nil
}

func (m *memStore) UpdatePlaylist(ctx context.Context, playlist *models.Playlist, songIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.playlists[playlist.ID]; !ok {
		return store.ErrNotFound
	}
	if err := m.checkSongs(songIDs); err != nil {
		return err
	}
	m.playlists[playlist.ID] = *playlist
	for key := range m.members {
		if key.PlaylistID == playlist.ID {
			delete(m.members, key)
		}
	}
	for _, id := range songIDs {
		m.members[models.PlaylistSong{PlaylistID: playlist.ID, SongID: id}] = true
	}
	return nil
}

func (m *memStore) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.playlists[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.playlists, id)
	for key := range m.members {
		if key.PlaylistID == id {
			delete(m.members, key)
		}
	}
	return nil
}

func (m *memStore) PlaylistSongs(ctx context.Context, playlistID uuid.UUID) ([]models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	songs := []models.Song{}
	for key := range m.members {
		if key.PlaylistID == playlistID {
			songs = append(songs, m.songs[key.SongID])
		}
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].Title < songs[j].Title })
	return songs, nil
}

func (m *memStore) AddSongToPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.members[models.PlaylistSong{PlaylistID: playlistID, SongID: songID}] = true
	return nil
}

func (m *memStore) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	delete(m.members, models.PlaylistSong{PlaylistID: playlistID, SongID: songID})
	return nil
}

// checkSongs mirrors the t_playlist_songs foreign key. The caller holds m.mu.
func (m *memStore) checkSongs(songIDs []uuid.UUID) error {
	for _, id := range songIDs {
		if _, ok := m.songs[id]; !ok {
			return store.ErrMissingReference
		}
	}
	return nil
}

// seedSong inserts a song directly, bypassing the handlers.
func (m *memStore) seedSong(title string, owner *uuid.UUID) models.Song {
	song := models.Song{
		Title:       title,
		Artist:      "Artist",
		Genre:       "Rock",
		ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		UserID:      owner,
	}
	_ = m.CreateSong(context.Background(), &song)
	return song
}

func (m *memStore) memberCount(playlistID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.members {
		if key.PlaylistID == playlistID {
			n++
		}
	}
	return n
}
