package handlers

import (
	"errors"

	"musicapp/forms"
	"musicapp/middleware"
	"musicapp/models"
	"musicapp/store"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	duplicateUsername = "A user with that username already exists."
	invalidLogin      = "Please enter a correct username and password."
)

// Signup registers a new user, logs them in and redirects home.
func (h *Handler) Signup(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if !actor.Submitting() {
		return renderForm(c, "registration/signup", "Signup", forms.SignupForm{}, nil, nil)
	}

	var form forms.SignupForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	errs := form.Validate()
	if !errs.Any() {
		user, err := h.register(c, form)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			errs.Add("username", duplicateUsername)
		case err != nil:
			return err
		default:
			if err := h.sessions.Login(c, user.ID); err != nil {
				return err
			}
			h.logger.Info("user signed up", "user_id", user.ID)
			return c.Redirect(homeURL)
		}
	}

	form.Blank()
	return renderForm(c, "registration/signup", "Signup", form, errs, nil)
}

func (h *Handler) register(c *fiber.Ctx, form forms.SignupForm) (models.User, error) {
	_, err := h.store.GetUserByUsername(c.UserContext(), form.Username)
	if err == nil {
		return models.User{}, store.ErrDuplicate
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), h.passwordCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: form.Username, Password: string(hash)}
	if err := h.store.CreateUser(c.UserContext(), &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login is the authentication entry point. On success it redirects to ?next= when that
// is a local path, otherwise home.
func (h *Handler) Login(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	next := c.Query("next")
	if next == "" {
		next = c.FormValue("next")
	}
	extra := fiber.Map{"next": next}

	if !actor.Submitting() {
		return renderForm(c, "registration/login", "Login", forms.LoginForm{}, nil, extra)
	}

	var form forms.LoginForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	errs := form.Validate()
	if !errs.Any() {
		user, err := h.store.GetUserByUsername(c.UserContext(), form.Username)
		switch {
		case errors.Is(err, store.ErrNotFound):
			errs.Add("", invalidLogin)
		case err != nil:
			return err
		case bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil:
			errs.Add("", invalidLogin)
		default:
			if err := h.sessions.Login(c, user.ID); err != nil {
				return err
			}
			return c.Redirect(middleware.SafeNext(next, homeURL))
		}
	}

	form.Blank()
	return renderForm(c, "registration/login", "Login", form, errs, extra)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		return err
	}
	return c.Redirect(homeURL)
}
