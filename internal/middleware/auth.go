package middleware

import (
	"net/http"
	"strings"

	"github.com/WeDoCheapies/website/internal/auth"
	"github.com/labstack/echo/v4"
)

const (
	adminKey         = "admin"
	accessTokenParam = "access_token"
	bearerScheme     = "Bearer"
)

// Authorize verifies bearer token and stores its subject as acting admin.
// Browsers can't set headers on websocket handshake, so token is also accepted as query parameter.
func Authorize(validator *auth.JwtValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := validator.Verify(rawToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set(adminKey, claims.Subject)
			return next(c)
		}
	}
}

// AdminID returns identity of authorized admin, empty for public routes
func AdminID(c echo.Context) string {
	id, _ := c.Get(adminKey).(string)
	return id
}

func bearerToken(c echo.Context) (string, error) {
	authHdr := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHdr == "" {
		if token := c.QueryParam(accessTokenParam); token != "" {
			return token, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing Authorization header")
	}

	hdrSplit := strings.Split(authHdr, " ")
	if len(hdrSplit) != 2 || !strings.EqualFold(hdrSplit[0], bearerScheme) {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid Authorization header format")
	}
	return hdrSplit[1], nil
}
