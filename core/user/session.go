package user

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	IsStudent bool   `json:"is_student,omitempty"`
	IsTeacher bool   `json:"is_teacher,omitempty"`
	IsParent  bool   `json:"is_parent,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// Session is the authenticated context a signed-in user carries around.
// Controllers receive it explicitly on construction; nothing in the core
// reads ambient auth state.
type Session struct {
	Token string
	User  User
}

// Anonymous reports whether the session carries no authenticated user.
func (s Session) Anonymous() bool { return s.Token == "" }

func (s Session) IsStudent() bool { return !s.Anonymous() && s.User.IsStudent() }
func (s Session) IsTeacher() bool { return !s.Anonymous() && s.User.IsTeacher() }
func (s Session) IsParent() bool  { return !s.Anonymous() && s.User.IsParent() }
func (s Session) IsAdmin() bool   { return !s.Anonymous() && s.User.IsAdmin() }

// NewSession verifies a bearer token against the shared secret and builds the
// session context from its claims.
func NewSession(token string, secret []byte) (Session, error) {
	claims, err := ParseClaims(token, secret)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token: token,
		User: User{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		},
	}, nil
}

// ParseClaims verifies a signed JWT token string and returns its Claims.
func ParseClaims(token string, secret []byte) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewClaims builds the standard claim set the backend signs for a user.
func NewClaims(usr User, issuer string, expirationDelta time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   usr.ID,
			ExpiresAt: now.Add(expirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      usr.Role,
		IsStudent: usr.IsStudent(),
		IsTeacher: usr.IsTeacher(),
		IsParent:  usr.IsParent(),
		IsAdmin:   usr.IsAdmin(),
	}
}
