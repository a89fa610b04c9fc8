package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"musicapp/models"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var _ Store = (*Postgres)(nil)

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	db *pgxpool.Pool
}

// Connect opens a pool against databaseURL and pings it.
func Connect(ctx context.Context, databaseURL string, maxConns int32) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{db: pool}, nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool}
}

func (p *Postgres) Close() {
	p.db.Close()
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// mapErr translates driver errors into the package sentinels.
func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrMissingReference)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()

	query := `INSERT INTO t_users (id, username, password, created_at) VALUES ($1, $2, $3, $4)`
	_, err := p.db.Exec(ctx, query, user.ID, user.Username, user.Password, user.CreatedAt)
	return mapErr(err, "create user")
}

func (p *Postgres) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	query := `SELECT id, username, password, created_at FROM t_users WHERE id = $1`
	err := p.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	return user, mapErr(err, "get user")
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	query := `SELECT id, username, password, created_at FROM t_users WHERE username = $1`
	err := p.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	return user, mapErr(err, "get user by username")
}

const songColumns = `id, title, artist, genre, release_date, created_at, user_id`

func scanSong(row pgx.Row) (models.Song, error) {
	var song models.Song
	err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Genre, &song.ReleaseDate, &song.CreatedAt, &song.UserID)
	return song, err
}

func collectSongs(rows pgx.Rows) ([]models.Song, error) {
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (p *Postgres) ListSongs(ctx context.Context, q models.SongQuery) ([]models.Song, int, error) {
	whereClause := ""
	args := []interface{}{}
	if q.Search != "" {
		whereClause = ` WHERE LOWER(title) LIKE $1 ESCAPE '\' OR LOWER(artist) LIKE $1 ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(q.Search))+"%")
	}

	var total int
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM t_songs`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "count songs")
	}

	query := `SELECT ` + songColumns + ` FROM t_songs` + whereClause + ` ORDER BY created_at DESC, id`
	if q.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapErr(err, "list songs")
	}
	songs, err := collectSongs(rows)
	if err != nil {
		return nil, 0, mapErr(err, "scan songs")
	}
	return songs, total, nil
}

func (p *Postgres) GetSong(ctx context.Context, id uuid.UUID) (models.Song, error) {
	song, err := scanSong(p.db.QueryRow(ctx, `SELECT `+songColumns+` FROM t_songs WHERE id = $1`, id))
	return song, mapErr(err, "get song")
}

func (p *Postgres) CreateSong(ctx context.Context, song *models.Song) error {
	song.ID = uuid.New()
	song.CreatedAt = time.Now().UTC()

	query := `INSERT INTO t_songs (id, title, artist, genre, release_date, created_at, user_id) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := p.db.Exec(ctx, query, song.ID, song.Title, song.Artist, song.Genre, song.ReleaseDate, song.CreatedAt, song.UserID)
	return mapErr(err, "create song")
}

func (p *Postgres) UpdateSong(ctx context.Context, song *models.Song) error {
	query := `UPDATE t_songs SET title = $1, artist = $2, genre = $3, release_date = $4 WHERE id = $5`
	tag, err := p.db.Exec(ctx, query, song.Title, song.Artist, song.Genre, song.ReleaseDate, song.ID)
	if err != nil {
		return mapErr(err, "update song")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSong relies on ON DELETE CASCADE for t_reviews and t_playlist_songs.
func (p *Postgres) DeleteSong(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM t_songs WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "delete song")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const reviewColumns = `id, song_id, rating, comment, created_at, user_id`

func scanReview(row pgx.Row) (models.Review, error) {
	var review models.Review
	err := row.Scan(&review.ID, &review.SongID, &review.Rating, &review.Comment, &review.CreatedAt, &review.UserID)
	return review, err
}

func (p *Postgres) ListReviews(ctx context.Context, songID uuid.UUID) ([]models.Review, error) {
	rows, err := p.db.Query(ctx, `SELECT `+reviewColumns+` FROM t_reviews WHERE song_id = $1 ORDER BY created_at DESC, id`, songID)
	if err != nil {
		return nil, mapErr(err, "list reviews")
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, mapErr(err, "scan review")
		}
		reviews = append(reviews, review)
	}
	return reviews, mapErr(rows.Err(), "list reviews")
}

func (p *Postgres) GetReview(ctx context.Context, id uuid.UUID) (models.Review, error) {
	review, err := scanReview(p.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM t_reviews WHERE id = $1`, id))
	return review, mapErr(err, "get review")
}

func (p *Postgres) CreateReview(ctx context.Context, review *models.Review) error {
	review.ID = uuid.New()
	review.CreatedAt = time.Now().UTC()

	query := `INSERT INTO t_reviews (id, song_id, rating, comment, created_at, user_id) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := p.db.Exec(ctx, query, review.ID, review.SongID, review.Rating, review.Comment, review.CreatedAt, review.UserID)
	return mapErr(err, "create review")
}

func (p *Postgres) UpdateReview(ctx context.Context, review *models.Review) error {
	tag, err := p.db.Exec(ctx, `UPDATE t_reviews SET rating = $1, comment = $2 WHERE id = $3`, review.Rating, review.Comment, review.ID)
	if err != nil {
		return mapErr(err, "update review")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteReview(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM t_reviews WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "delete review")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const playlistColumns = `id, name, description, created_at, user_id`

func scanPlaylist(row pgx.Row) (models.Playlist, error) {
	var playlist models.Playlist
	err := row.Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.CreatedAt, &playlist.UserID)
	return playlist, err
}

func (p *Postgres) ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	rows, err := p.db.Query(ctx, `SELECT `+playlistColumns+` FROM t_playlist WHERE user_id = $1 ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, mapErr(err, "list playlists")
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, mapErr(err, "scan playlist")
		}
		playlists = append(playlists, playlist)
	}
	return playlists, mapErr(rows.Err(), "list playlists")
}

func (p *Postgres) GetPlaylist(ctx context.Context, id uuid.UUID) (models.Playlist, error) {
	playlist, err := scanPlaylist(p.db.QueryRow(ctx, `SELECT `+playlistColumns+` FROM t_playlist WHERE id = $1`, id))
	return playlist, mapErr(err, "get playlist")
}

func (p *Postgres) GetOwnedPlaylist(ctx context.Context, id, ownerID uuid.UUID) (models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM t_playlist WHERE id = $1 AND user_id = $2`
	playlist, err := scanPlaylist(p.db.QueryRow(ctx, query, id, ownerID))
	return playlist, mapErr(err, "get owned playlist")
}

// insertPlaylistSongs adds every song id to the playlist inside tx, ignoring existing rows.
func insertPlaylistSongs(ctx context.Context, tx pgx.Tx, playlistID uuid.UUID, songIDs []uuid.UUID) error {
	for _, songID := range songIDs {
		_, err := tx.Exec(ctx, `INSERT INTO t_playlist_songs (playlist_id, song_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, playlistID, songID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) CreatePlaylist(ctx context.Context, playlist *models.Playlist, songIDs []uuid.UUID) error {
	playlist.ID = uuid.New()
	playlist.CreatedAt = time.Now().UTC()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return mapErr(err, "begin create playlist")
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO t_playlist (id, name, description, created_at, user_id) VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, query, playlist.ID, playlist.Name, playlist.Description, playlist.CreatedAt, playlist.UserID); err != nil {
		return mapErr(err, "create playlist")
	}
	if err := insertPlaylistSongs(ctx, tx, playlist.ID, songIDs); err != nil {
		return mapErr(err, "create playlist songs")
	}
	return mapErr(tx.Commit(ctx), "commit create playlist")
}

// UpdatePlaylist rewrites name and description and replaces the song set.
func (p *Postgres) UpdatePlaylist(ctx context.Context, playlist *models.Playlist, songIDs []uuid.UUID) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return mapErr(err, "begin update playlist")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE t_playlist SET name = $1, description = $2 WHERE id = $3`, playlist.Name, playlist.Description, playlist.ID)
	if err != nil {
		return mapErr(err, "update playlist")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM t_playlist_songs WHERE playlist_id = $1`, playlist.ID); err != nil {
		return mapErr(err, "clear playlist songs")
	}
	if err := insertPlaylistSongs(ctx, tx, playlist.ID, songIDs); err != nil {
		return mapErr(err, "update playlist songs")
	}
	return mapErr(tx.Commit(ctx), "commit update playlist")
}

// DeletePlaylist removes the playlist and its memberships; the songs stay.
func (p *Postgres) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM t_playlist WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "delete playlist")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) PlaylistSongs(ctx context.Context, playlistID uuid.UUID) ([]models.Song, error) {
	query := `
        SELECT s.id, s.title, s.artist, s.genre, s.release_date, s.created_at, s.user_id
        FROM t_playlist_songs ps
        JOIN t_songs s ON ps.song_id = s.id
        WHERE ps.playlist_id = $1
        ORDER BY s.title, s.id
    `
	rows, err := p.db.Query(ctx, query, playlistID)
	if err != nil {
		return nil, mapErr(err, "list playlist songs")
	}
	songs, err := collectSongs(rows)
	return songs, mapErr(err, "scan playlist songs")
}

func (p *Postgres) AddSongToPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error {
	query := `INSERT INTO t_playlist_songs (playlist_id, song_id) VALUES ($1, $2) ON CONFLICT (playlist_id, song_id) DO NOTHING`
	_, err := p.db.Exec(ctx, query, playlistID, songID)
	return mapErr(err, "add song to playlist")
}

func (p *Postgres) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error {
	_, err := p.db.Exec(ctx, `DELETE FROM t_playlist_songs WHERE playlist_id = $1 AND song_id = $2`, playlistID, songID)
	return mapErr(err, "remove song from playlist")
}
