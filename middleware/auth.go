package middleware

import (
	"encoding/gob"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func init() {
	// Session storage gob-encodes its values; uuid.UUID has to be registered.
	gob.Register(uuid.UUID{})
}

const (
	sessionUserKey = "userID"
	actorKey       = "actor"
)

// LoginURL is the authentication entry point anonymous requests are sent to.
const LoginURL = "/accounts/login/"

// Actor is the identity and intent of the current request. Handlers take it from the
// request context instead of reading the session themselves.
type Actor struct {
	UserID uuid.UUID
	Method string
}

func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}

// Submitting reports whether the request carries a form submission.
func (a Actor) Submitting() bool {
	return a.Method == fiber.MethodPost
}

// LoadActor resolves the session user, if any, and stores the Actor in c.Locals.
// A broken session is treated as anonymous.
func LoadActor(sessions *Sessions, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor{Method: c.Method()}

		userID, err := sessions.UserID(c)
		if err != nil {
			logger.Warn("session lookup failed", "err", err, "path", c.Path())
		} else {
			actor.UserID = userID
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the Actor stored by LoadActor, or an anonymous one.
func ActorFrom(c *fiber.Ctx) Actor {
	actor, ok := c.Locals(actorKey).(Actor)
	if !ok {
		return Actor{Method: c.Method()}
	}
	return actor
}

// AuthRequired lets only authenticated actors through. Everyone else is redirected to
// LoginURL with the original location in "next".
func AuthRequired(c *fiber.Ctx) error {
	if ActorFrom(c).Authenticated() {
		return c.Next()
	}
	return c.Redirect(LoginURL + "?next=" + url.QueryEscape(c.OriginalURL()))
}

// SafeNext returns next when it is a local path and fallback otherwise.
func SafeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
