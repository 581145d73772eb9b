package authController

import (
	"errors"
	"strings"
	"time"

	"careerhub/config"
	"careerhub/database"
	"careerhub/logger"
	"careerhub/middleware"
	"careerhub/models"
	authValidator "careerhub/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	blockDuration   = 15 * time.Minute
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("hash password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:             strings.TrimSpace(reqData.Name),
		Email:            email,
		Password:         string(hashedPassword),
		Role:             models.RoleUser,
		IsActive:         true,
		NotifyNewCourses: true,
	}

	if err := db.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		logger.Log.Error("create user", "email", email, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	token, err := middleware.GenerateJWT(newUser.ID, newUser.Name, newUser.Role, newUser.Email)
	if err != nil {
		logger.Log.Error("sign token", "user_id", newUser.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"token": token,
		"user":  newUser,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db
	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Account is deactivated!", nil)
	}

	now := time.Now()
	if user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	// Failed attempts older than the block window are forgotten
	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > blockDuration {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now
		if user.FailedLoginAttempts >= maxFailedLogins {
			until := now.Add(blockDuration)
			user.BlockedUntil = &until
		}
		if err := db.Model(&user).Select("FailedLoginAttempts", "LastFailedLogin", "BlockedUntil").Updates(&user).Error; err != nil {
			logger.Log.Error("record failed login", "user_id", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.FailedLoginAttempts > 0 || user.BlockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
		user.BlockedUntil = nil
		if err := db.Model(&user).Select("FailedLoginAttempts", "LastFailedLogin", "BlockedUntil").Updates(&user).Error; err != nil {
			logger.Log.Error("reset failed logins", "user_id", user.ID, "error", err)
		}
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		logger.Log.Error("sign token", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	history := models.LoginHistory{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    c.Get(fiber.HeaderUserAgent),
		Timestamp: now,
	}
	if err := db.Create(&history).Error; err != nil {
		logger.Log.Warn("record login history", "user_id", user.ID, "error", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user.
func Me(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// LoginHistoryList returns the caller's most recent logins.
func LoginHistoryList(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var history []models.LoginHistory
	if err := database.Database.Db.
		Where("user_id = ?", userId).
		Order("timestamp desc").
		Limit(20).
		Find(&history).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch login history!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully!", history)
}
