package handlers

import (
	"errors"

	"musicapp/middleware"
	"musicapp/store"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"golang.org/x/crypto/bcrypt"
)

// Handler carries the collaborators shared by every request handler.
type Handler struct {
	store        store.Store
	sessions     *middleware.Sessions
	logger       *log.Logger
	passwordCost int
}

type Option func(*Handler)

// WithPasswordCost sets the bcrypt cost used when hashing new passwords.
func WithPasswordCost(cost int) Option {
	return func(h *Handler) {
		h.passwordCost = cost
	}
}

func New(s store.Store, sessions *middleware.Sessions, logger *log.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:        s,
		sessions:     sessions,
		logger:       logger,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewApp builds the fiber application with the middleware chain and the routing table.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "musicapp",
		ErrorHandler: h.errorHandler,
		// values parsed from a request outlive it in the store and in logs
		Immutable: true,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(h.logger))
	app.Use(recover.New())
	app.Use(middleware.LoadActor(h.sessions, h.logger))

	h.Routes(app)
	return app
}

// errorHandler maps NotFound and dangling references to 404 and anything unexpected to a logged 500.
func (h *Handler) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrMissingReference):
		code = fiber.StatusNotFound
	case errors.As(err, &fe):
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		h.logger.Error("request failed", "err", err, "method", c.Method(), "path", c.Path())
	}
	return c.Status(code).JSON(fiber.Map{"error": utils.StatusMessage(code)})
}
