package ports

import (
	"delivery-web-server/internal/security"
)

type JWTServiceInterface interface {
	GenerateAccessToken(userUUID string) (string, error)
	ValidateJWT(tokenString string, secret []byte) (*security.Claims, error)
}
