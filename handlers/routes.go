package handlers

import (
	"musicapp/middleware"

	"github.com/gofiber/fiber/v2"
)

// Routes registers the routing table. Literal segments such as /songs/new/ are
// registered ahead of the /:id/ patterns they would otherwise collide with.
func (h *Handler) Routes(app *fiber.App) {
	auth := middleware.AuthRequired

	app.Get("/", h.Home)
	app.Get("/healthz", h.Health)

	app.Get("/songs/", middleware.ValidatePageQuery, h.SongIndex)
	form(app, "/songs/new/", auth, h.SongCreate)
	app.Get("/songs/:id/", h.SongDetail)
	form(app, "/songs/:id/edit/", auth, h.SongUpdate)
	form(app, "/songs/:id/delete/", auth, h.SongDelete)

	form(app, "/songs/:songID/reviews/new/", auth, h.ReviewCreate)
	form(app, "/reviews/:id/edit/", auth, h.ReviewUpdate)
	form(app, "/reviews/:id/delete/", auth, h.ReviewDelete)

	form(app, "/accounts/signup/", h.Signup)
	form(app, "/accounts/login/", h.Login)
	app.Post("/accounts/logout/", h.Logout)

	app.Get("/playlists/", auth, h.PlaylistIndex)
	form(app, "/playlists/new/", auth, h.PlaylistCreate)
	app.Get("/playlists/:id/", auth, h.PlaylistDetail)
	form(app, "/playlists/:id/edit/", auth, h.PlaylistUpdate)
	form(app, "/playlists/:id/delete/", auth, h.PlaylistDelete)
	app.Post("/playlists/:playlistID/add/:songID/", auth, h.PlaylistAddSong)
	app.Post("/playlists/:playlistID/remove/:songID/", auth, h.PlaylistRemoveSong)
}

// form registers a page that is shown on GET and submitted on POST.
func form(r fiber.Router, path string, handlers ...fiber.Handler) {
	r.Get(path, handlers...)
	r.Post(path, handlers...)
}
