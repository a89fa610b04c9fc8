package handlers

import (
	"musicapp/forms"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// render answers with the named view and its data. Templating lives outside this
// service, so a view is a JSON document naming its template.
func render(c *fiber.Ctx, view string, data fiber.Map) error {
	return renderStatus(c, fiber.StatusOK, view, data)
}

func renderStatus(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	data["view"] = view
	return c.Status(status).JSON(data)
}

// renderForm shows a form. A form with errors is answered with 422.
func renderForm(c *fiber.Ctx, view, kind string, form any, errs forms.Errors, extra fiber.Map) error {
	if errs == nil {
		errs = forms.Errors{}
	}
	data := fiber.Map{"type": kind, "form": form, "errors": errs}
	for k, v := range extra {
		data[k] = v
	}
	status := fiber.StatusOK
	if errs.Any() {
		status = fiber.StatusUnprocessableEntity
	}
	return renderStatus(c, status, view, data)
}

// bindForm decodes a urlencoded, multipart or JSON body into out. An empty body
// leaves out untouched so validation reports the missing fields.
func bindForm(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

// paramID parses a uuid route parameter. A malformed id cannot name a record, so it is
// reported as not found.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.ErrNotFound
	}
	return id, nil
}

func songURL(id uuid.UUID) string {
	return "/songs/" + id.String() + "/"
}

func playlistURL(id uuid.UUID) string {
	return "/playlists/" + id.String() + "/"
}

const (
	songIndexURL     = "/songs/"
	playlistIndexURL = "/playlists/"
	homeURL          = "/"
)
