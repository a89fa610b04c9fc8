package handlers

import (
	"strings"

	"musicapp/forms"
	"musicapp/middleware"
	"musicapp/models"

	"github.com/gofiber/fiber/v2"
)

const songsPerPage = 20

// SongIndex lists songs newest first, optionally filtered by ?search=.
func (h *Handler) SongIndex(c *fiber.Ctx) error {
	page := middleware.Page(c)
	search := strings.TrimSpace(c.Query("search"))

	songs, total, err := h.store.ListSongs(c.UserContext(), models.SongQuery{
		Search: search,
		Limit:  songsPerPage,
		Offset: (page - 1) * songsPerPage,
	})
	if err != nil {
		return err
	}

	return render(c, "songs/index", fiber.Map{
		"songs":     songs,
		"search":    search,
		"total":     total,
		"page":      page,
		"last_page": (total + songsPerPage - 1) / songsPerPage,
	})
}

// SongDetail shows a song with its reviews.
func (h *Handler) SongDetail(c *fiber.Ctx) error {
	song, err := h.loadSong(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.store.ListReviews(c.UserContext(), song.ID)
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	return render(c, "songs/detail", fiber.Map{
		"song":       song,
		"reviews":    reviews,
		"can_modify": middleware.CanModify(actor.UserID, song.UserID),
	})
}

func (h *Handler) SongCreate(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if !actor.Submitting() {
		return renderForm(c, "songs/form", "Create", forms.SongForm{}, nil, nil)
	}

	var form forms.SongForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	owner := actor.UserID
	song := models.Song{UserID: &owner}
	if errs := form.Bind(&song); errs.Any() {
		return renderForm(c, "songs/form", "Create", form, errs, nil)
	}

	if err := h.store.CreateSong(c.UserContext(), &song); err != nil {
		return err
	}
	h.logger.Info("song created", "song_id", song.ID, "user_id", owner)
	return c.Redirect(songURL(song.ID))
}

func (h *Handler) SongUpdate(c *fiber.Ctx) error {
	song, err := h.loadSong(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if !middleware.CanModify(actor.UserID, song.UserID) {
		return c.Redirect(songURL(song.ID))
	}

	if !actor.Submitting() {
		return renderForm(c, "songs/form", "Update", forms.NewSongForm(song), nil, fiber.Map{"song": song})
	}

	var form forms.SongForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	if errs := form.Bind(&song); errs.Any() {
		return renderForm(c, "songs/form", "Update", form, errs, fiber.Map{"song": song})
	}

	if err := h.store.UpdateSong(c.UserContext(), &song); err != nil {
		return err
	}
	return c.Redirect(songURL(song.ID))
}

func (h *Handler) SongDelete(c *fiber.Ctx) error {
	song, err := h.loadSong(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if !middleware.CanModify(actor.UserID, song.UserID) {
		return c.Redirect(songURL(song.ID))
	}

	if !actor.Submitting() {
		return render(c, "songs/confirm_delete", fiber.Map{"song": song})
	}

	if err := h.store.DeleteSong(c.UserContext(), song.ID); err != nil {
		return err
	}
	h.logger.Info("song deleted", "song_id", song.ID, "user_id", actor.UserID)
	return c.Redirect(songIndexURL)
}

func (h *Handler) loadSong(c *fiber.Ctx, param string) (models.Song, error) {
	id, err := paramID(c, param)
	if err != nil {
		return models.Song{}, err
	}
	return h.store.GetSong(c.UserContext(), id)
}
