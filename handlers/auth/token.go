package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gmpi-ec/gmpi-backend/utils/middleware"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
)

// RefreshTokenResponse carries the re-issued token.
type RefreshTokenResponse struct {
	Token string `json:"token"`
}

// RefreshToken re-issues a token for the authenticated user with a fresh
// expiry. The claims are rebuilt from the user row, not the old token, so
// role changes take effect on refresh.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Acceso denegado. Token requerido.")
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Error al renovar el token")
	}

	return response.SuccessWithMessage(c, "Token renovado exitosamente", RefreshTokenResponse{
		Token: token,
	})
}
