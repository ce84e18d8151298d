package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/model"
	authutil "github.com/gmpi-ec/gmpi-backend/utils/auth"
	"github.com/gmpi-ec/gmpi-backend/utils/middleware"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Acceso denegado. Token requerido.")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Usuario no encontrado")
		}
		return response.InternalServerError(c, "Error al obtener el perfil")
	}

	return response.Success(c, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

// UpdateProfileRequest represents a profile update request. A password
// change requires the current password alongside the new one.
type UpdateProfileRequest struct {
	Username        string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// UpdateProfile updates the authenticated user's profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Acceso denegado. Token requerido.")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	req.Username = validation.SanitizeString(req.Username)
	req.Email = validation.SanitizeString(req.Email)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	if req.NewPassword != "" && !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "La nueva contraseña debe tener al menos 6 caracteres")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Usuario no encontrado")
		}
		return response.InternalServerError(c, "Error al actualizar el perfil")
	}

	updates := map[string]interface{}{}

	if req.NewPassword != "" && req.CurrentPassword != "" {
		if err := authutil.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
			return response.BadRequest(c, "Contraseña actual incorrecta")
		}
		hash, err := authutil.HashPassword(req.NewPassword, h.bcryptCost)
		if err != nil {
			return response.InternalServerError(c, "Error al actualizar el perfil")
		}
		updates["password_hash"] = hash
	}

	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Error al actualizar el perfil")
		}
	}

	if err := h.db.First(&user, userID).Error; err != nil {
		return response.InternalServerError(c, "Error al actualizar el perfil")
	}

	return response.SuccessWithMessage(c, "Perfil actualizado exitosamente", UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}
