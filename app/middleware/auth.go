package appMiddleware

import (
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey contextKey = "userID"
const UserRoleKey contextKey = "userRole"

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecretKey() []byte {
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		return []byte(secret)
	}
	// Dev fallback; production sets JWT_SECRET_KEY.
	return []byte("dev-secret-key")
}
