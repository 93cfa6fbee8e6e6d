package middleware

// identity.go resolves the caller identity for every request.  An
// authenticated visitor presents a Bearer access token issued by the
// external auth service; its subject claim becomes the user id.
// Everyone else is a guest: a session id cookie is minted on first
// contact and carried for the rest of the visit, so anonymous holds
// and releases are attributable to one logical session.

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

// GuestCookieName is the cookie carrying the anonymous session id.
const GuestCookieName = "guest_session"

// identityKey is the context key the resolved identity is stored under.
const identityKey = "identity"

// Identity returns middleware that resolves the caller into a
// model.Identity.  A present-but-invalid Bearer token is rejected with
// 401; a missing token falls back to the guest cookie.  This service
// never issues tokens, it only verifies the auth service's HS256
// signature with the shared secret.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				raw := strings.TrimPrefix(auth, "Bearer ")
				tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, echo.ErrUnauthorized
					}
					return []byte(secret), nil
				})
				if err != nil || !tok.Valid {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				claims, ok := tok.Claims.(jwt.MapClaims)
				if !ok {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
				}
				sub, _ := claims["sub"].(string)
				if sub == "" {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing subject"})
				}
				c.Set(identityKey, model.Identity{UserID: sub})
				return next(c)
			}

			// Guest path: reuse the cookie or mint a new session id.
			var guestID string
			if ck, err := c.Cookie(GuestCookieName); err == nil && ck.Value != "" {
				guestID = ck.Value
			} else {
				guestID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     GuestCookieName,
					Value:    guestID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}
			c.Set(identityKey, model.Identity{GuestSessionID: guestID})
			return next(c)
		}
	}
}

// CurrentIdentity extracts the identity stored by the Identity
// middleware.  The zero value is returned when the middleware did not
// run, which handlers treat as an internal error.
func CurrentIdentity(c echo.Context) model.Identity {
	if v, ok := c.Get(identityKey).(model.Identity); ok {
		return v
	}
	return model.Identity{}
}
