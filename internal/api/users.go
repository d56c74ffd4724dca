package api

import (
	"errors"
	"net/http"

	"drops_api/internal/domain"
	"drops_api/internal/service"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListUsersHandler returns users page by page, optionally filtered by role
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize, offset := pagination(c)
		query := db.WithContext(c.Request.Context()).Model(&domain.User{})
		if r := c.Query("role"); r != "" {
			role, err := domain.ParseRole(r)
			if err != nil {
				respondError(c, err)
				return
			}
			query = query.Where("role = ?", role)
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondError(c, err)
			return
		}
		var users []domain.User
		if err := query.Order("id").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			respondError(c, err)
			return
		}
		resp := make([]UserResponse, len(users))
		for i := range users {
			resp[i] = toUserResponse(&users[i])
		}
		c.JSON(http.StatusOK, pageBody("users", resp, page, pageSize, total))
	}
}

// DeleteUserHandler removes a user and everything they own
func DeleteUserHandler(users *service.UserService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		if id == principalID(c) { // Admins cannot lock themselves out
			badRequest(c, "Cannot delete yourself")
			return
		}
		deleted, err := users.Delete(c.Request.Context(), id)
		if err != nil {
			respondError(c, err) // 404 for an unknown user
			return
		}
		keys := []string{dashboardKey}
		for _, pid := range deleted.ProductIDs() {
			keys = append(keys, productKey(pid), reviewsKey(pid))
		}
		invalidate(c, cache, keys...)
		logrus.WithFields(logrus.Fields{
			"user_id":           id,
			"admin_id":          principalID(c),
			"reviewed_products": len(deleted.ReviewedProducts),
			"owned_products":    len(deleted.OwnedProducts),
		}).Info("User deleted")
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}

// UpdateUserRoleHandler changes a user's role, the only way a role changes besides seller approval
func UpdateUserRoleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		role, err := domain.ParseRole(c.Query("new_role"))
		if err != nil {
			respondError(c, err)
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			respondError(c, err)
			return
		}
		if err := db.WithContext(c.Request.Context()).Model(&user).Update("role", role).Error; err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  id,
			"from":     user.Role,
			"to":       role,
			"admin_id": principalID(c),
		}).Info("User role changed")
		user.Role = role
		c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": toUserResponse(&user)})
	}
}
