// middleware/auth.go
package middleware

import (
	"context"
	"os"
	"strings"
	"time"

	"bidarena/database"
	"bidarena/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateToken issues the bearer token a user authenticates with. Team
// identity is baked into the token so bid submissions can never act for a
// team the caller does not own.
func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}
	if user.TeamID != nil {
		claims["team_id"] = user.TeamID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret()))
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "bidarena-secret-change-in-production"
	}
	return secret
}

func parseBearer(c *fiber.Ctx) (jwt.MapClaims, string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, "", fiber.NewError(401, "Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "", fiber.NewError(401, "Invalid authorization header format")
	}
	tokenString := parts[1]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(jwtSecret()), nil
	})
	if err != nil || !token.Valid {
		return nil, "", fiber.NewError(401, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", fiber.NewError(401, "Invalid token claims")
	}
	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, "", fiber.NewError(401, "Token expired")
	}
	return claims, tokenString, nil
}

// tokenRevoked checks the Redis session store. Without Redis every token is
// treated as live.
func tokenRevoked(tokenString string) bool {
	rdb := database.GetRedis()
	if rdb == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, err := rdb.Exists(ctx, "revoked:"+tokenString).Result()
	return err == nil && n > 0
}

// RevokeToken blacklists a token until its natural expiry.
func RevokeToken(tokenString string, ttl time.Duration) error {
	rdb := database.GetRedis()
	if rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return rdb.Set(ctx, "revoked:"+tokenString, 1, ttl).Err()
}

// AuthMiddleware authenticates any registered user.
func AuthMiddleware(c *fiber.Ctx) error {
	claims, tokenString, err := parseBearer(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
	}
	if tokenRevoked(tokenString) {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Token revoked"})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("role", claims["role"])
	if teamID, ok := claims["team_id"].(string); ok {
		c.Locals("teamId", teamID)
	}
	c.Locals("token", tokenString)
	return c.Next()
}

// AdminOnly allows only admin accounts through. Must run after AuthMiddleware.
func AdminOnly(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Admin privileges required"})
	}
	return c.Next()
}

// TeamOnly allows only team accounts with a bound team id.
func TeamOnly(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	teamID, _ := c.Locals("teamId").(string)
	if role != models.RoleTeam || teamID == "" {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Team account required"})
	}
	return c.Next()
}

// GetTeamID returns the acting team's id from the verified token. This is
// the only source of team identity for financial commands; client-supplied
// team ids are never trusted.
func GetTeamID(c *fiber.Ctx) (uuid.UUID, error) {
	teamID, _ := c.Locals("teamId").(string)
	if teamID == "" {
		return uuid.Nil, fiber.NewError(401, "No team bound to this account")
	}
	id, err := uuid.Parse(teamID)
	if err != nil {
		return uuid.Nil, fiber.NewError(401, "Invalid team id in token")
	}
	return id, nil
}

// GetUserID returns the authenticated user's id.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, _ := c.Locals("userId").(string)
	if userID == "" {
		return uuid.Nil, fiber.NewError(401, "User not authenticated")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, fiber.NewError(401, "Invalid user id in token")
	}
	return id, nil
}
