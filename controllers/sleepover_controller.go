package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/CUknot/dorm_backend/database"
	"github.com/CUknot/dorm_backend/models"
	"github.com/CUknot/dorm_backend/utils"
	"github.com/CUknot/dorm_backend/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errRoomNotFound = errors.New("Room not found")
	errRoomFull     = errors.New("Room full")
)

type CreateSleepoverInput struct {
	StudentID   uint   `json:"studentId" example:"3"`
	RoomID      string `json:"roomId" binding:"required" example:"A-204"`
	VisitorName string `json:"visitorName" binding:"required" example:"Nok Saelim"`
	VisitorID   string `json:"visitorId" binding:"required" example:"1103700012345"`
	PhoneNumber string `json:"phoneNumber" binding:"required,phone" example:"081-234-5678"`
	Date        string `json:"date" binding:"required,isodate" example:"2026-11-02"`
	// Status is accepted for compatibility and ignored; new requests are always PENDING.
	Status string `json:"status" example:"PENDING"`
}

type VerifySleepoverInput struct {
	Action string `json:"action" binding:"required,oneof=approve reject" example:"approve"`
	Note   string `json:"note" example:"Enjoy the visit"`
}

// CreateSleepover godoc
// @Summary Submit a sleepover request
// @Description Creates a PENDING request for the authenticated student. Any status in the body is ignored.
// @Tags sleepovers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSleepoverInput true "Sleepover request"
// @Success 201 {object} models.SleepoverRequest
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 409 {object} map[string]string "Room full"
// @Router /api/sleepovers [post]
func CreateSleepover(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	role := c.GetString("role")

	var input CreateSleepoverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	studentID := userID
	if input.StudentID != 0 && input.StudentID != userID {
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only submit requests for yourself"})
			return
		}
		studentID = input.StudentID
	}

	request := models.SleepoverRequest{
		StudentID:   studentID,
		RoomID:      input.RoomID,
		VisitorName: input.VisitorName,
		VisitorID:   input.VisitorID,
		PhoneNumber: utils.NormalizePhoneNumber(input.PhoneNumber),
		Date:        input.Date,
		Status:      models.StatusPending,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockRoom(tx, input.RoomID, &room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRoomNotFound
			}
			return err
		}

		// pending and approved requests both hold a guest slot for the night
		var booked int64
		if err := tx.Model(&models.SleepoverRequest{}).
			Where("room_id = ? AND date = ? AND status <> ?", room.Number, input.Date, models.StatusRejected).
			Count(&booked).Error; err != nil {
			return err
		}
		if booked >= int64(room.MaxGuests) {
			return errRoomFull
		}

		return tx.Create(&request).Error
	})
	switch {
	case errors.Is(err, errRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, errRoomFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sleepover request"})
		return
	}

	// Load the student for the response and the admin notification
	if err := database.DB.Preload("Student").First(&request, "id = ?", request.ID).Error; err != nil {
		log.Printf("Failed to reload sleepover request %s: %v", request.ID, err)
	}

	websocket.NotifyAdmins("sleepover_created", request)

	c.JSON(http.StatusCreated, request)
}

// GetStudentSleepovers godoc
// @Summary List a student's sleepover requests
// @Description Students may only list their own requests; admins may list anyone's.
// @Tags sleepovers
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {array} models.SleepoverRequest
// @Failure 400 {object} map[string]string "Invalid student ID"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/sleepovers/student/{studentId} [get]
func GetStudentSleepovers(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	if uint(studentID) != userID && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own requests"})
		return
	}

	requests := []models.SleepoverRequest{}
	if err := database.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sleepover requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetAllSleepovers godoc
// @Summary List every sleepover request
// @Description Includes studentName and studentEmail for review.
// @Tags sleepovers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SleepoverRequest
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/sleepovers [get]
func GetAllSleepovers(c *gin.Context) {
	requests := []models.SleepoverRequest{}
	if err := database.DB.Preload("Student").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sleepover requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetSleepover godoc
// @Summary Get one sleepover request
// @Tags sleepovers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} models.SleepoverRequest
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/sleepovers/{id} [get]
func GetSleepover(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	request, ok := findSleepover(c)
	if !ok {
		return
	}

	if request.StudentID != userID && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this request"})
		return
	}

	c.JSON(http.StatusOK, request)
}

// VerifySleepover godoc
// @Summary Approve or reject a sleepover request
// @Description Only PENDING requests can be verified. The student is notified.
// @Tags sleepovers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param decision body VerifySleepoverInput true "Decision"
// @Success 200 {object} models.SleepoverRequest
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Not found or already processed"
// @Router /api/sleepovers/{id}/verify [post]
func VerifySleepover(c *gin.Context) {
	adminID := c.MustGet("userID").(uint)

	var input VerifySleepoverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	request, ok := findSleepover(c)
	if !ok {
		return
	}

	status, kind := models.StatusApproved, models.NotificationSleepoverApproved
	if input.Action == "reject" {
		status, kind = models.StatusRejected, models.NotificationSleepoverRejected
	}
	now := time.Now()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SleepoverRequest{}).
			Where("id = ? AND status = ?", request.ID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":      status,
				"reviewed_by": adminID,
				"reviewed_at": now,
				"review_note": input.Note,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		notification := models.Notification{
			UserID:      request.StudentID,
			Type:        kind,
			Content:     notificationContent(request, status, input.Note),
			SleepoverID: &request.ID,
		}
		return tx.Create(&notification).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sleepover request not found or already processed"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sleepover request"})
		return
	}

	if err := database.DB.Preload("Student").First(&request, "id = ?", request.ID).Error; err != nil {
		log.Printf("Failed to reload sleepover request %s: %v", request.ID, err)
	}

	websocket.NotifyUser(request.StudentID, "sleepover_updated", request)

	c.JSON(http.StatusOK, request)
}

// lockRoom loads a room by number and holds its row lock until the transaction ends,
// so concurrent requests for the same room count bookings one at a time
func lockRoom(tx *gorm.DB, number string, room *models.Room) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("number = ?", number).First(room)
}

func findSleepover(c *gin.Context) (models.SleepoverRequest, bool) {
	var request models.SleepoverRequest

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sleepover request not found"})
		return request, false
	}

	if err := database.DB.Preload("Student").First(&request, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sleepover request not found"})
		return request, false
	}
	return request, true
}

func notificationContent(request models.SleepoverRequest, status, note string) string {
	verb := "approved"
	if status == models.StatusRejected {
		verb = "rejected"
	}
	msg := fmt.Sprintf("Your sleepover request for %s on %s was %s.", request.VisitorName, request.Date, verb)
	if note != "" {
		msg += " Note: " + note
	}
	return msg
}
