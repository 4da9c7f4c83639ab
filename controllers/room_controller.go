package controllers

import (
	"net/http"
	"strconv"

	"github.com/CUknot/dorm_backend/database"
	"github.com/CUknot/dorm_backend/models"
	"github.com/CUknot/dorm_backend/utils"
	"github.com/gin-gonic/gin"
)

type CreateRoomInput struct {
	Number    string `json:"number" binding:"required" example:"A-204"`
	Building  string `json:"building" example:"Building A"`
	MaxGuests int    `json:"maxGuests" binding:"omitempty,min=1" example:"1"`
}

type UpdateRoomInput struct {
	Building  string `json:"building" example:"Building B"`
	MaxGuests int    `json:"maxGuests" binding:"omitempty,min=1" example:"2"`
}

// GetRooms godoc
// @Summary List dormitory rooms
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Room
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/rooms [get]
func GetRooms(c *gin.Context) {
	var rooms []models.Room
	if err := database.DB.Order("number ASC").Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// CreateRoom godoc
// @Summary Create a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room body CreateRoomInput true "Room Creation"
// @Success 201 {object} models.Room
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/rooms [post]
func CreateRoom(c *gin.Context) {
	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	var existing models.Room
	if result := database.DB.Where("number = ?", input.Number).Limit(1).Find(&existing); result.RowsAffected > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room already exists"})
		return
	}

	room := models.Room{
		Number:    input.Number,
		Building:  input.Building,
		MaxGuests: input.MaxGuests,
	}
	if room.MaxGuests == 0 {
		room.MaxGuests = 1
	}

	if err := database.DB.Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GetRoom godoc
// @Summary Get a room
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} models.Room
// @Failure 400 {object} map[string]string "Invalid room ID"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/rooms/{id} [get]
func GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var room models.Room
	if err := database.DB.First(&room, roomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// UpdateRoom godoc
// @Summary Update a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param room body UpdateRoomInput true "Room Update"
// @Success 200 {object} models.Room
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/rooms/{id} [put]
func UpdateRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var input UpdateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	var room models.Room
	if err := database.DB.First(&room, roomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	if input.Building != "" {
		room.Building = input.Building
	}
	if input.MaxGuests > 0 {
		room.MaxGuests = input.MaxGuests
	}

	if err := database.DB.Save(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// DeleteRoom godoc
// @Summary Delete a room
// @Description Refused while the room still has pending sleepover requests
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]string "Room deleted successfully"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 409 {object} map[string]string "Room has pending requests"
// @Router /api/rooms/{id} [delete]
func DeleteRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var room models.Room
	if err := database.DB.First(&room, roomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	var pending int64
	if err := database.DB.Model(&models.SleepoverRequest{}).
		Where("room_id = ? AND status = ?", room.Number, models.StatusPending).
		Count(&pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room requests"})
		return
	}
	if pending > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Room has pending sleepover requests"})
		return
	}

	if err := database.DB.Delete(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
