package dto

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterDTO carries sign-up fields. AvatarPath and CoverImagePath point at
// locally staged uploads; the service moves them to media storage.
type RegisterDTO struct {
	Username       string `form:"username" json:"username" validate:"required,handle"`
	Email          string `form:"email"    json:"email"    validate:"required,email,max=254"`
	Password       string `form:"password" json:"password" validate:"required,maxbytes=72"`
	FullName       string `form:"fullName" json:"fullName" validate:"required,max=100"`
	AvatarPath     string `form:"-" json:"-"`
	CoverImagePath string `form:"-" json:"-"`
}

func (d *RegisterDTO) Normalize() {
	d.Username = strings.ToLower(strings.TrimSpace(d.Username))
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FullName = strings.TrimSpace(d.FullName)
}

// LoginDTO identifies the account by email or username; email wins if both are set.
type LoginDTO struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Username string `json:"username" validate:"omitempty,handle"`
	Password string `json:"password" validate:"required"`
}

func (d *LoginDTO) Normalize() {
	d.Username = strings.ToLower(strings.TrimSpace(d.Username))
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,maxbytes=72,nefield=OldPassword"`
}

type UpdateAccountDTO struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=254"`
}

func (d *UpdateAccountDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

var handleRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{2,29}$`)

// NewValidator returns a validator with the project's custom rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handleRe.MatchString(fl.Field().String())
	})
	// maxbytes bounds the UTF-8 length, which is what bcrypt limits
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}
