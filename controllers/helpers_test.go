package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CUknot/dorm_backend/database"
	"github.com/CUknot/dorm_backend/models"
	"github.com/CUknot/dorm_backend/utils"
	"github.com/gin-gonic/gin"
)

// setupTestRouter opens a private in-memory database and mounts the API
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("controller-test-secret", time.Hour)
	if err := utils.RegisterValidators(); err != nil {
		t.Fatalf("register validators: %v", err)
	}

	if err := database.ConnectSQLite("file:" + t.Name() + "?mode=memory&cache=shared"); err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	router := gin.New()
	RegisterRoutes(router)
	return router
}

func createUser(t *testing.T, name, email, role string) (models.User, string) {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "secret123", Role: role}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return user, token
}

func createRoom(t *testing.T, number string, maxGuests int) models.Room {
	t.Helper()
	room := models.Room{Number: number, Building: "A", MaxGuests: maxGuests}
	if err := database.DB.Create(&room).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}
	return room
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
}

func errorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, resp, &body)
	return body["error"]
}

func assertStatus(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()
	if resp.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.Code, resp.Body.String())
	}
}
