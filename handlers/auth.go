// handlers/auth.go
package handlers

import (
	"time"

	"bidarena/database"
	"bidarena/middleware"
	"bidarena/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login authenticates a user and returns a bearer token carrying role and
// team identity.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Email and password are required"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token": token,
			"user":  user,
		},
	})
}

// Register creates a user account. Team accounts get their team binding
// from the admin afterwards; self-registration never grants admin.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Username, email and password are required"})
	}

	role := req.Role
	if role != models.RoleTeam {
		role = models.RolePlayer
	}

	db := database.GetDB()
	var existing models.User
	if err := db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "User already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create account"})
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create account"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": user})
}

// Logout revokes the presented token for the remainder of its lifetime.
func Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	if token != "" {
		if err := middleware.RevokeToken(token, 24*time.Hour); err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to revoke token"})
		}
	}
	return c.JSON(fiber.Map{"success": true})
}
