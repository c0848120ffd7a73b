package http

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode"

	"chessington/internal/core"
	"chessington/internal/storage"

	"github.com/gofiber/fiber/v2"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{1,40}$`)

// RegisterHandler creates a new user account
func (h *HTTPHandler) RegisterHandler(c *fiber.Ctx) error {
	var req core.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.CodeInvalidRequest,
			Details: err.Error(),
		})
	}

	// Validate request structure
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.CodeInvalidRequest,
			Details: describeValidation(err),
		})
	}

	// Validate username format
	if !usernameRegex.MatchString(req.Username) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid username format",
			Code:    core.CodeInvalidRequest,
			Details: "username must be 1-40 characters, alphanumeric and underscore only",
		})
	}

	// Validate password strength
	if err := validatePassword(req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "weak password",
			Code:    core.CodeInvalidRequest,
			Details: err.Error(),
		})
	}

	// Normalize for case-insensitive storage
	req.Username = strings.ToLower(req.Username)
	req.Email = strings.ToLower(req.Email)

	// Create user
	user, err := h.svc.CreateUser(req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, storage.ErrUserExists):
		return c.Status(fiber.StatusConflict).JSON(core.ErrorResponse{
			Error:   "user already exists",
			Code:    core.CodeUserExists,
			Details: "username or email already taken",
		})
	case errors.Is(err, core.ErrStorageDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(core.ErrorResponse{
			Error: "accounts need storage",
			Code:  core.CodeStorageDisabled,
		})
	case err != nil:
		log.Printf("register %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to create user",
			Code:  core.CodeInternalError,
		})
	}

	// Generate JWT token
	return h.issueToken(c, fiber.StatusCreated, user.UserID, user.Username, user.Email)
}

// validatePassword requires at least one letter and one digit
func validatePassword(password string) error {
	hasLetter := false
	hasNumber := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsNumber(r):
			hasNumber = true
		}
	}

	if !hasLetter || !hasNumber {
		return fmt.Errorf("password must contain at least one letter and one number")
	}
	return nil
}

// LoginHandler authenticates user and returns JWT token
func (h *HTTPHandler) LoginHandler(c *fiber.Ctx) error {
	var req core.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.CodeInvalidRequest,
			Details: err.Error(),
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.CodeInvalidRequest,
			Details: describeValidation(err),
		})
	}

	// Authenticate user
	user, err := h.svc.AuthenticateUser(strings.ToLower(req.Identifier), req.Password)
	if errors.Is(err, core.ErrStorageDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(core.ErrorResponse{
			Error: "accounts need storage",
			Code:  core.CodeStorageDisabled,
		})
	}
	if err != nil {
		// Same answer for unknown user and bad password
		return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
			Error: "invalid credentials",
			Code:  core.CodeUnauthorized,
		})
	}

	// Update last login time, failure is not fatal
	if err := h.svc.UpdateLastLogin(user.UserID); err != nil {
		log.Printf("login %s: %v", user.Username, err)
	}

	return h.issueToken(c, fiber.StatusOK, user.UserID, user.Username, user.Email)
}

// issueToken writes an AuthResponse carrying a fresh token
func (h *HTTPHandler) issueToken(c *fiber.Ctx, status int, userID, username, email string) error {
	token, expiresAt, err := h.svc.GenerateUserToken(userID)
	if err != nil {
		log.Printf("token for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to generate token",
			Code:  core.CodeInternalError,
		})
	}

	return c.Status(status).JSON(core.AuthResponse{
		Token:     token,
		UserID:    userID,
		Username:  username,
		Email:     email,
		ExpiresAt: expiresAt.Unix(),
	})
}

// GetCurrentUserHandler returns authenticated user information
func (h *HTTPHandler) GetCurrentUserHandler(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
			Error: "unauthorized",
			Code:  core.CodeUnauthorized,
		})
	}

	// Get user details
	user, err := h.svc.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "user not found",
			Code:  core.CodeUnauthorized,
		})
	}

	return c.JSON(core.UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Unix(),
	})
}
