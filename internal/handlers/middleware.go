package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"market-service/shared/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v3"
)

const userIDLocal = "user_id"

// TokenVerifier checks a Firebase ID token.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuth puts the caller's uid in the request locals.
func FirebaseAuth(verifier TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(http.StatusUnauthorized).JSON(utils.CreateErrorResponse("MISSING_TOKEN", "authorization header required"))
		}

		idToken, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || idToken == "" {
			return c.Status(http.StatusUnauthorized).JSON(utils.CreateErrorResponse("INVALID_TOKEN", "expected a bearer token"))
		}

		token, err := verifier.VerifyIDToken(c.Context(), idToken)
		if err != nil {
			slog.Warn("token verification failed", "path", c.Path(), "error", err)
			return c.Status(http.StatusUnauthorized).JSON(utils.CreateErrorResponse("INVALID_TOKEN", "token validation failed"))
		}

		c.Locals(userIDLocal, token.UID)
		return c.Next()
	}
}

func currentUserID(c fiber.Ctx) string {
	uid, _ := c.Locals(userIDLocal).(string)
	return uid
}
