package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/model"
	authutil "github.com/gmpi-ec/gmpi-backend/utils/auth"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

// LoginRequest represents a user login request. Login accepts either the
// username or the email address.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	req.Login = validation.SanitizeString(req.Login)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	ip := c.IP()

	var user model.User
	err := h.db.Where("username = ? OR email = ?", req.Login, req.Login).First(&user).Error
	if err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Unauthorized(c, "Credenciales inválidas")
		}
		return response.InternalServerError(c, "Error al iniciar sesión")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Credenciales inválidas")
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Error al generar el token")
	}

	return response.SuccessWithMessage(c, "Login exitoso", AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Token:    token,
	})
}
