package handlers

import (
	"context"
	"errors"

	"musicapp/forms"
	"musicapp/middleware"
	"musicapp/models"
	"musicapp/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PlaylistIndex lists the playlists of the current user only.
func (h *Handler) PlaylistIndex(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)

	playlists, err := h.store.ListPlaylists(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return render(c, "playlists/index", fiber.Map{"playlists": playlists})
}

// PlaylistDetail shows any playlist, with its songs, to an authenticated user.
func (h *Handler) PlaylistDetail(c *fiber.Ctx) error {
	playlist, err := h.loadPlaylist(c)
	if err != nil {
		return err
	}

	songs, err := h.store.PlaylistSongs(c.UserContext(), playlist.ID)
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	return render(c, "playlists/detail", fiber.Map{
		"playlist":   playlist,
		"songs":      songs,
		"can_modify": middleware.CanModify(actor.UserID, &playlist.UserID),
	})
}

func (h *Handler) PlaylistCreate(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if !actor.Submitting() {
		return renderForm(c, "playlists/form", "Create", forms.PlaylistForm{Songs: []string{}}, nil, nil)
	}

	var form forms.PlaylistForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	playlist := models.Playlist{UserID: actor.UserID}
	songIDs, errs, err := h.bindPlaylist(c.UserContext(), &form, &playlist)
	if err != nil {
		return err
	}
	if errs.Any() {
		return renderForm(c, "playlists/form", "Create", form, errs, nil)
	}

	err = h.store.CreatePlaylist(c.UserContext(), &playlist, songIDs)
	if errors.Is(err, store.ErrMissingReference) {
		return renderForm(c, "playlists/form", "Create", form, songGone(), nil)
	}
	if err != nil {
		return err
	}
	h.logger.Info("playlist created", "playlist_id", playlist.ID, "user_id", actor.UserID)
	return c.Redirect(playlistURL(playlist.ID))
}

func (h *Handler) PlaylistUpdate(c *fiber.Ctx) error {
	playlist, err := h.loadPlaylist(c)
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if !middleware.CanModify(actor.UserID, &playlist.UserID) {
		return c.Redirect(playlistIndexURL)
	}

	extra := fiber.Map{"playlist": playlist}
	if !actor.Submitting() {
		songs, err := h.store.PlaylistSongs(c.UserContext(), playlist.ID)
		if err != nil {
			return err
		}
		return renderForm(c, "playlists/form", "Update", forms.NewPlaylistForm(playlist, songs), nil, extra)
	}

	var form forms.PlaylistForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	songIDs, errs, err := h.bindPlaylist(c.UserContext(), &form, &playlist)
	if err != nil {
		return err
	}
	if errs.Any() {
		return renderForm(c, "playlists/form", "Update", form, errs, extra)
	}

	err = h.store.UpdatePlaylist(c.UserContext(), &playlist, songIDs)
	if errors.Is(err, store.ErrMissingReference) {
		return renderForm(c, "playlists/form", "Update", form, songGone(), extra)
	}
	if err != nil {
		return err
	}
	return c.Redirect(playlistURL(playlist.ID))
}

// PlaylistDelete removes the playlist. Its songs are left alone.
func (h *Handler) PlaylistDelete(c *fiber.Ctx) error {
	playlist, err := h.loadPlaylist(c)
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if !middleware.CanModify(actor.UserID, &playlist.UserID) {
		return c.Redirect(playlistIndexURL)
	}

	if !actor.Submitting() {
		return render(c, "playlists/confirm_delete", fiber.Map{"playlist": playlist})
	}

	if err := h.store.DeletePlaylist(c.UserContext(), playlist.ID); err != nil {
		return err
	}
	h.logger.Info("playlist deleted", "playlist_id", playlist.ID, "user_id", actor.UserID)
	return c.Redirect(playlistIndexURL)
}

// PlaylistAddSong adds a song to one of the current user's playlists. Adding a song
// that is already there changes nothing.
func (h *Handler) PlaylistAddSong(c *fiber.Ctx) error {
	playlist, song, err := h.loadMembership(c)
	if err != nil {
		return err
	}
	if err := h.store.AddSongToPlaylist(c.UserContext(), playlist.ID, song.ID); err != nil {
		return err
	}
	return c.Redirect(playlistURL(playlist.ID))
}

// PlaylistRemoveSong removes a song from one of the current user's playlists.
// Removing a song that is not there changes nothing.
func (h *Handler) PlaylistRemoveSong(c *fiber.Ctx) error {
	playlist, song, err := h.loadMembership(c)
	if err != nil {
		return err
	}
	if err := h.store.RemoveSongFromPlaylist(c.UserContext(), playlist.ID, song.ID); err != nil {
		return err
	}
	return c.Redirect(playlistURL(playlist.ID))
}

func (h *Handler) loadPlaylist(c *fiber.Ctx) (models.Playlist, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return models.Playlist{}, err
	}
	return h.store.GetPlaylist(c.UserContext(), id)
}

// loadMembership resolves the playlist scoped to the current owner, then the song,
// which may belong to anyone. A playlist owned by someone else is not found.
func (h *Handler) loadMembership(c *fiber.Ctx) (models.Playlist, models.Song, error) {
	playlistID, err := paramID(c, "playlistID")
	if err != nil {
		return models.Playlist{}, models.Song{}, err
	}
	songID, err := paramID(c, "songID")
	if err != nil {
		return models.Playlist{}, models.Song{}, err
	}

	actor := middleware.ActorFrom(c)
	playlist, err := h.store.GetOwnedPlaylist(c.UserContext(), playlistID, actor.UserID)
	if err != nil {
		return models.Playlist{}, models.Song{}, err
	}
	song, err := h.store.GetSong(c.UserContext(), songID)
	if err != nil {
		return models.Playlist{}, models.Song{}, err
	}
	return playlist, song, nil
}

// songGone reports a selected song deleted after the form was checked.
func songGone() forms.Errors {
	errs := forms.Errors{}
	errs.Add("songs", "One of the selected songs no longer exists.")
	return errs
}

// bindPlaylist validates the form and checks that every selected song exists.
// playlist is only written when the form is valid.
func (h *Handler) bindPlaylist(ctx context.Context, form *forms.PlaylistForm, playlist *models.Playlist) ([]uuid.UUID, forms.Errors, error) {
	candidate := *playlist
	songIDs, errs := form.Bind(&candidate)
	if errs.Any() {
		return nil, errs, nil
	}

	for _, id := range songIDs {
		_, err := h.store.GetSong(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			errs.Add("songs", forms.InvalidChoice(id.String()))
			continue
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if errs.Any() {
		return nil, errs, nil
	}

	*playlist = candidate
	return songIDs, errs, nil
}
