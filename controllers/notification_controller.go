package controllers

import (
	"net/http"

	"github.com/CUknot/dorm_backend/database"
	"github.com/CUknot/dorm_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetNotifications godoc
// @Summary List the authenticated user's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/notifications [get]
func GetNotifications(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	notifications := []models.Notification{}
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string "Notification marked as read"
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /api/notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
