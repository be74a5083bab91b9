// utils/auth.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IdentityMiddleware resolves the X-User-ID header against the users table.
// The header value is trusted as-is; authentication happens upstream.
func IdentityMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{
				Success: false, Error: "Kërkohet identifikimi (X-User-ID)",
			})
			return
		}

		var row struct {
			ID       string
			Name     string
			Role     string
			IsActive bool
		}
		if err := db.Table("users").
			Select("id, name, role, is_active").
			Where("id = ?", userID).
			Take(&row).Error; err != nil || !row.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{
				Success: false, Error: "Përdoruesi nuk u gjet",
			})
			return
		}

		c.Set("userId", row.ID)
		c.Set("userName", row.Name)
		c.Set("userRole", row.Role)
		c.Next()
	}
}

// IsPrivileged reports whether the role may see and manage everything.
func IsPrivileged(role string) bool {
	return role == "admin" || role == "manager"
}

// Identity returns the resolved requester name and role from the context.
func Identity(c *gin.Context) (name, role string) {
	return c.GetString("userName"), c.GetString("userRole")
}
