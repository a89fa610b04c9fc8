package middleware

import (
	"fmt"

	"musicapp/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// Sessions wraps the fiber session store with the login state of a request.
type Sessions struct {
	store *session.Store
}

// NewSessions builds the session store. A nil storage keeps sessions in memory.
func NewSessions(storage fiber.Storage, cfg config.SessionConfig) *Sessions {
	name := cfg.CookieName
	if name == "" {
		name = "session_id"
	}
	return &Sessions{
		store: session.New(session.Config{
			Storage:        storage,
			Expiration:     cfg.TTL(),
			KeyLookup:      "cookie:" + name,
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// UserID returns the logged in user, or uuid.Nil for anonymous sessions.
func (s *Sessions) UserID(c *fiber.Ctx) (uuid.UUID, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get session: %w", err)
	}
	userID, ok := sess.Get(sessionUserKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, nil
	}
	return userID, nil
}

// Login binds userID to a fresh session id.
func (s *Sessions) Login(c *fiber.Ctx, userID uuid.UUID) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(sessionUserKey, userID)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Sessions) Logout(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
