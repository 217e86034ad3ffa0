// Package middleware provides authentication, logging, and rate limiting
// middleware for the application.
package middleware

import (
	"net/url"
	"strconv"
	"strings"

	"chronicle/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// SessionCookie is the cookie carrying the signed viewer token for
// browser clients; API clients may use an Authorization header instead.
const SessionCookie = "chronicle_session"

// viewerFromToken parses and validates a signed token, returning the
// viewer's user ID, or 0 if the token is missing or invalid.
func viewerFromToken(tokenString string) uint {
	if tokenString == "" {
		return 0
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}

	// The subject claim carries the user ID (RFC 7519).
	subClaim, ok := claims["sub"]
	if !ok {
		return 0
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0
	}
	viewerID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0
	}
	return uint(viewerID)
}

// tokenFromRequest extracts the raw token from the Authorization header
// or, failing that, the session cookie.
func tokenFromRequest(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Cookies(SessionCookie)
}

// ViewerContext resolves the optional authenticated viewer for every
// request. Anonymous and invalid-token requests proceed with no viewer;
// read handlers then apply the public visibility rules.
func ViewerContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if viewerID := viewerFromToken(tokenFromRequest(c)); viewerID != 0 {
			c.Locals("viewerID", viewerID)
		}
		return c.Next()
	}
}

// LoginRequired guards mutating routes: anonymous requests are redirected
// to the login page with the original URL in the `next` parameter.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("viewerID") == nil {
			target := cfg.LoginURL + "?next=" + url.QueryEscape(c.OriginalURL())
			return c.Redirect(target, fiber.StatusFound)
		}
		return c.Next()
	}
}
