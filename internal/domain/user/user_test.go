package user

import (
	"errors"
	"strings"
	"testing"

	"user-service/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// longEmail is well formed but does not fit the 255-character column.
func longEmail() string {
	label := strings.Repeat("b", 60)
	return strings.Repeat("a", 60) + "@" + strings.Join([]string{label, label, label, label}, ".") + ".com"
}

func TestUserCreate_Validate(t *testing.T) {
	valid := UserCreate{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	}
	require.NoError(t, valid.Validate())

	mismatch := valid
	mismatch.PasswordConfirm = "secret124"
	assert.True(t, errors.Is(mismatch.Validate(), ErrPasswordMismatch))

	tests := []struct {
		name  string
		mod   func(c *UserCreate)
		field string
	}{
		{"short username", func(c *UserCreate) { c.Username = "al" }, "username"},
		{"long username", func(c *UserCreate) { c.Username = string(make([]byte, 51)) }, "username"},
		{"bad email", func(c *UserCreate) { c.Email = "not-an-email" }, "email"},
		{"long email", func(c *UserCreate) { c.Email = longEmail() }, "email"},
		{"short password", func(c *UserCreate) { c.Password, c.PasswordConfirm = "short", "short" }, "password"},
		{"missing confirm", func(c *UserCreate) { c.PasswordConfirm = "" }, "password_confirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mod(&c)
			err := c.Validate()
			require.Error(t, err)
			require.True(t, validator.IsValidationError(err))

			fields := validator.FormatValidationError(err)
			require.NotEmpty(t, fields)
			assert.Equal(t, tt.field, fields[0].Field)
		})
	}
}

func TestUserUpdate_Validate(t *testing.T) {
	assert.NoError(t, (&UserUpdate{}).Validate())
	assert.NoError(t, (&UserUpdate{Email: strPtr("b@x.com")}).Validate())
	assert.NoError(t, (&UserUpdate{Password: strPtr("newsecret")}).Validate())
	assert.NoError(t, (&UserUpdate{Password: strPtr("newsecret"), PasswordConfirm: strPtr("newsecret")}).Validate())

	err := (&UserUpdate{Password: strPtr("newsecret"), PasswordConfirm: strPtr("other-secret")}).Validate()
	assert.True(t, errors.Is(err, ErrPasswordMismatch))

	err = (&UserUpdate{PasswordConfirm: strPtr("newsecret")}).Validate()
	assert.True(t, errors.Is(err, ErrPasswordMismatch))

	err = (&UserUpdate{Username: strPtr("ab")}).Validate()
	assert.True(t, validator.IsValidationError(err))

	err = (&UserUpdate{Password: strPtr("short")}).Validate()
	assert.True(t, validator.IsValidationError(err))
}

func TestUserUpdate_Validate_LongEmail(t *testing.T) {
	err := (&UserUpdate{Email: strPtr(longEmail())}).Validate()
	require.True(t, validator.IsValidationError(err))
	assert.Equal(t, "email", validator.FormatValidationError(err)[0].Field)
}

func TestNewUser_DropsConfirmation(t *testing.T) {
	u := NewUser(&UserCreate{Username: "alice", Email: "a@x.com", Password: "secret123", PasswordConfirm: "secret123"})

	assert.Zero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "secret123", u.Password)
}

func TestApplyUpdate_OnlyPresentFields(t *testing.T) {
	u := &User{ID: 7, Username: "alice", Email: "a@x.com", Password: "hash"}

	u.ApplyUpdate(&UserUpdate{Email: strPtr("b@x.com")})
	assert.Equal(t, User{ID: 7, Username: "alice", Email: "b@x.com", Password: "hash"}, *u)

	u.ApplyUpdate(&UserUpdate{Username: strPtr("alicia"), Password: strPtr("hash2"), PasswordConfirm: strPtr("ignored")})
	assert.Equal(t, User{ID: 7, Username: "alicia", Email: "b@x.com", Password: "hash2"}, *u)

	u.ApplyUpdate(&UserUpdate{})
	assert.Equal(t, User{ID: 7, Username: "alicia", Email: "b@x.com", Password: "hash2"}, *u)
}

func TestToResponse_HidesPassword(t *testing.T) {
	u := &User{ID: 3, Username: "bob", Email: "bob@x.com", Password: "hash"}

	assert.Equal(t, UserResponse{ID: 3, Username: "bob", Email: "bob@x.com"}, u.ToResponse())

	views := ToResponses([]*User{u})
	require.Len(t, views, 1)
	assert.Equal(t, uint(3), views[0].ID)

	assert.NotNil(t, ToResponses(nil))
}
