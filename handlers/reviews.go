package handlers

import (
	"musicapp/forms"
	"musicapp/middleware"
	"musicapp/models"

	"github.com/gofiber/fiber/v2"
)

// ReviewCreate lets any authenticated user review an existing song.
func (h *Handler) ReviewCreate(c *fiber.Ctx) error {
	song, err := h.loadSong(c, "songID")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	extra := fiber.Map{"song": song}
	if !actor.Submitting() {
		return renderForm(c, "reviews/form", "Create", forms.ReviewForm{}, nil, extra)
	}

	var form forms.ReviewForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	owner := actor.UserID
	review := models.Review{SongID: song.ID, UserID: &owner}
	if errs := form.Bind(&review); errs.Any() {
		return renderForm(c, "reviews/form", "Create", form, errs, extra)
	}

	if err := h.store.CreateReview(c.UserContext(), &review); err != nil {
		return err
	}
	return c.Redirect(songURL(song.ID))
}

func (h *Handler) ReviewUpdate(c *fiber.Ctx) error {
	review, err := h.loadReview(c)
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if !middleware.CanModify(actor.UserID, review.UserID) {
		return c.Redirect(songURL(review.SongID))
	}

	extra := fiber.Map{"review": review}
	if !actor.Submitting() {
		return renderForm(c, "reviews/form", "Update", forms.NewReviewForm(review), nil, extra)
	}

	var form forms.ReviewForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	if errs := form.Bind(&review); errs.Any() {
		return renderForm(c, "reviews/form", "Update", form, errs, extra)
	}

	if err := h.store.UpdateReview(c.UserContext(), &review); err != nil {
		return err
	}
	return c.Redirect(songURL(review.SongID))
}

func (h *Handler) ReviewDelete(c *fiber.Ctx) error {
	review, err := h.loadReview(c)
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if !middleware.CanModify(actor.UserID, review.UserID) {
		return c.Redirect(songURL(review.SongID))
	}

	if !actor.Submitting() {
		return render(c, "reviews/confirm_delete", fiber.Map{"review": review})
	}

	if err := h.store.DeleteReview(c.UserContext(), review.ID); err != nil {
		return err
	}
	return c.Redirect(songURL(review.SongID))
}

func (h *Handler) loadReview(c *fiber.Ctx) (models.Review, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return models.Review{}, err
	}
	return h.store.GetReview(c.UserContext(), id)
}
