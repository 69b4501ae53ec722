package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/jaanutuni/internal/models"
	"github.com/example/jaanutuni/internal/utils"
)

// PasswordResetHandler manages the security-question recovery flow: the
// client fetches the stored question/answer pair, verifies the answer
// locally, then submits the new password.
type PasswordResetHandler struct {
	db *gorm.DB
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB) *PasswordResetHandler {
	return &PasswordResetHandler{db: db}
}

// GetSecurityQA returns the security question and answer for a username.
func (h *PasswordResetHandler) GetSecurityQA(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"question": user.Question,
		"answer":   user.Answer,
	})
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword overwrites the stored password hash. The recovery flow
// verifies the security answer on the client, so no re-authentication
// happens here.
func (h *PasswordResetHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and newPassword are required")
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
