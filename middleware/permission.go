package middleware

import (
	"careerhub/database"
	"careerhub/models"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminOnly lets the request through only when the authenticated user is an
// active admin. The role is re-read from the database, not trusted from the token.
func AdminOnly(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var user models.User
	err := database.Database.Db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
	}

	if !user.IsAdmin() {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	c.Locals("user", user)
	return c.Next()
}

// CurrentUser loads the authenticated user, caching it in Locals.
func CurrentUser(c *fiber.Ctx) (models.User, error) {
	if user, ok := c.Locals("user").(models.User); ok {
		return user, nil
	}
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return models.User{}, err
	}
	c.Locals("user", user)
	return user, nil
}
