package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

func TestValidateCoordinates(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateCoordinates(37.5665, 126.9780))
	assert.NoError(t, v.ValidateCoordinates(-90, 180))
	assert.ErrorIs(t, v.ValidateCoordinates(90.1, 0), apperrors.ErrInvalidLatitude)
	assert.ErrorIs(t, v.ValidateCoordinates(0, -180.5), apperrors.ErrInvalidLongitude)
}

func TestValidateRadius(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateRadius(1000, 50000))
	assert.NoError(t, v.ValidateRadius(50000, 50000))
	assert.ErrorIs(t, v.ValidateRadius(0, 50000), apperrors.ErrInvalidRadius)
	assert.ErrorIs(t, v.ValidateRadius(50001, 50000), apperrors.ErrInvalidRadius)
}

func TestValidateEmail(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateEmail("young@example.com"))
	for _, bad := range []string{"", "young", "Young <young@example.com>", "young@"} {
		assert.ErrorIs(t, v.ValidateEmail(bad), apperrors.ErrInvalidEmail, bad)
	}
}

func TestValidatePassword(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidatePassword("12345678"))
	assert.ErrorIs(t, v.ValidatePassword("short"), apperrors.ErrInvalidPassword)
	assert.ErrorIs(t, v.ValidatePassword(strings.Repeat("a", 73)), apperrors.ErrInvalidPassword)
}

func TestValidateName(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateName("김영희"))
	assert.NoError(t, v.ValidateName(strings.Repeat("가", 40)))
	assert.ErrorIs(t, v.ValidateName("   "), apperrors.ErrInvalidName)
	assert.ErrorIs(t, v.ValidateName(strings.Repeat("가", 41)), apperrors.ErrInvalidName)
}

func TestValidateBioAndLocation(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateBio(""))
	assert.NoError(t, v.ValidateBio(strings.Repeat("글", 500)))
	assert.ErrorIs(t, v.ValidateBio(strings.Repeat("글", 501)), apperrors.ErrInvalidBio)

	assert.NoError(t, v.ValidateLocation("서울시 종로구"))
	assert.ErrorIs(t, v.ValidateLocation(strings.Repeat("구", 101)), apperrors.ErrInvalidLocation)
}

func TestValidateImageURL(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateImageURL("https://images.example.com/me.jpg"))
	assert.NoError(t, v.ValidateImageURL("http://example.com/a.png"))
	for _, bad := range []string{"", "ftp://example.com/a.png", "javascript:alert(1)", "/local.png"} {
		assert.ErrorIs(t, v.ValidateImageURL(bad), apperrors.ErrInvalidImageURL, bad)
	}
}
