package mockapi

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
)

const contextTokenKey = "userToken"

// jwtConfig is the JWT auth middleware config; same claims and secret the
// client parses its session from.
func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(user.Claims),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *user.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (user.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*user.Claims); ok {
			return *claims, nil
		}
	}
	return user.Claims{}, errUnauthorized
}

// studentMiddleware rejects callers without the student role.
func studentMiddleware(message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.Role != user.RoleStudent {
				return echo.NewHTTPError(http.StatusForbidden, message)
			}
			return next(ctx)
		}
	}
}

type authAPI struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, opts *Options) {
	api := authAPI{opts: opts}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.GET("/verify-student/:id", api.verifyStudent)
}

func (api *authAPI) login(ctx echo.Context) error {
	var data struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding login request")
	}

	usr, ok := api.opts.Store.UserByEmail(data.Email)
	if ok {
		if err := usr.CheckPassword(data.Password); err != nil {
			ok = false
		}
	}
	if !ok {
		return errAuthenticationFailed
	}

	claims := user.NewClaims(userView(usr), api.opts.Conf.AppName, api.opts.Conf.API.JWTExpirationDelta)
	token, err := GenerateToken(claims, api.opts.Conf.SecretKey)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  userJSON(usr),
	})
}

func (api *authAPI) verifyStudent(ctx echo.Context) error {
	usr, ok := api.opts.Store.UserByStudentID(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusOK, echo.Map{"success": false})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"student": userJSON(usr),
	})
}

func userView(u *StoredUser) user.User {
	return user.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Grade:     u.Grade,
		Division:  u.Division,
		StudentID: u.StudentID,
		CreatedAt: u.CreatedAt,
	}
}

// userJSON renders a user the way the real backend does (`_id` keys).
func userJSON(u *StoredUser) echo.Map {
	return echo.Map{
		"_id":       u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"grade":     u.Grade,
		"division":  u.Division,
		"studentId": u.StudentID,
		"createdAt": u.CreatedAt,
	}
}
