package restsvc

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
)

var _ user.VerifyService = (*Client)(nil)

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

// Login authenticates against the backend and returns the session context
// to inject into the controllers.
func (c *Client) Login(ctx context.Context, email, password string) (user.Session, error) {
	body := LoginRequest{Email: email, Password: password}
	if err := c.checkValid(body.Validate(c.validate)); err != nil {
		return user.Session{}, err
	}

	var resp struct {
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	}
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return user.Session{}, err
	}
	if resp.Token == "" {
		return user.Session{}, errors.New("login response carried no token")
	}
	return user.Session{Token: resp.Token, User: resp.User.normalize()}, nil
}

// VerifyStudent checks a student ID (the short code a parent enters) and
// returns the matching student.
func (c *Client) VerifyStudent(ctx context.Context, studentID string) (user.User, error) {
	var resp struct {
		Success bool      `json:"success"`
		Student *wireUser `json:"student"`
	}
	if err := c.get(ctx, pathf("/api/auth/verify-student/%s", studentID), &resp); err != nil {
		return user.User{}, err
	}
	if !resp.Success || resp.Student == nil {
		return user.User{}, core.ErrNotFound
	}
	return resp.Student.normalize(), nil
}
