package validator

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

const (
	maxNameLength     = 40
	maxBioLength      = 500
	maxLocationLength = 100
	minPasswordLength = 8
	maxPasswordLength = 72
)

type Validator interface {
	ValidateCoordinates(lat, lon float64) error
	ValidateRadius(radius, max float64) error
	ValidateEmail(email string) error
	ValidatePassword(password string) error
	ValidateName(name string) error
	ValidateBio(bio string) error
	ValidateLocation(location string) error
	ValidateImageURL(raw string) error
}

type validator struct{}

func NewValidator() Validator {
	return &validator{}
}

func (v *validator) ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.ErrInvalidLatitude
	}

	if lon < -180 || lon > 180 {
		return apperrors.ErrInvalidLongitude
	}

	return nil
}

// ValidateRadius accepts (0, max] metres.
func (v *validator) ValidateRadius(radius, max float64) error {
	if radius <= 0 || radius > max {
		return apperrors.ErrInvalidRadius
	}

	return nil
}

func (v *validator) ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperrors.ErrInvalidEmail
	}

	return nil
}

func (v *validator) ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return apperrors.ErrInvalidPassword
	}

	return nil
}

// Names are counted in runes; most members write them in Hangul.
func (v *validator) ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > maxNameLength {
		return apperrors.ErrInvalidName
	}

	return nil
}

func (v *validator) ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > maxBioLength {
		return apperrors.ErrInvalidBio
	}

	return nil
}

func (v *validator) ValidateLocation(location string) error {
	if utf8.RuneCountInString(location) > maxLocationLength {
		return apperrors.ErrInvalidLocation
	}

	return nil
}

func (v *validator) ValidateImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.ErrInvalidImageURL
	}

	return nil
}
