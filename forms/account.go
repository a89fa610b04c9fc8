package forms

import "strings"

// SignupForm mirrors a username/password registration form with confirmation.
type SignupForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" json:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

func (f *SignupForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

// Blank clears the password fields so they are never echoed back.
func (f *SignupForm) Blank() {
	f.Password1 = ""
	f.Password2 = ""
}

type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

func (f *LoginForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

func (f *LoginForm) Blank() {
	f.Password = ""
}
