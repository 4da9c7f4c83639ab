package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/CUknot/dorm_backend/apiclient"
	"github.com/CUknot/dorm_backend/controllers"
	"github.com/CUknot/dorm_backend/database"
	"github.com/CUknot/dorm_backend/models"
	"github.com/CUknot/dorm_backend/utils"
	"github.com/gin-gonic/gin"
)

// startServer mounts the JSON API and the pages on one engine, with the pages calling the API over HTTP
func startServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("web-server-test-secret", time.Hour)
	if err := utils.RegisterValidators(); err != nil {
		t.Fatalf("register validators: %v", err)
	}
	if err := database.ConnectSQLite("file:" + t.Name() + "?mode=memory&cache=shared"); err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	router := gin.New()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	controllers.RegisterRoutes(router)
	NewManager(apiclient.New(server.URL), 1500*time.Millisecond).RegisterRoutes(router)
	return router
}

func seedUser(t *testing.T, email, role string) string {
	t.Helper()
	user := models.User{Name: strings.Split(email, "@")[0], Email: email, Password: "secret123", Role: role}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func TestSubmitAndReviewThroughAPI(t *testing.T) {
	router := startServer(t)
	if err := database.DB.Create(&models.Room{Number: "A-204", MaxGuests: 1}).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}
	student := seedUser(t, "ana@dorm.test", models.RoleStudent)
	other := seedUser(t, "ben@dorm.test", models.RoleStudent)
	admin := seedUser(t, "warden@dorm.test", models.RoleAdmin)

	form := sleepoverForm()
	form.Set("status", "APPROVED")
	resp := doPage(router, http.MethodPost, "/sleepover.html", student, form)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), submitSuccessMessage) {
		t.Fatalf("submit failed: %d %s", resp.Code, resp.Body.String())
	}

	var stored []models.SleepoverRequest
	database.DB.Find(&stored)
	if len(stored) != 1 || stored[0].Status != models.StatusPending {
		t.Fatalf("expected one pending request, got %+v", stored)
	}

	// the room takes one guest per night
	resp = doPage(router, http.MethodPost, "/sleepover.html", other, sleepoverForm())
	if !strings.Contains(resp.Body.String(), `<div class="alert error">Room full</div>`) {
		t.Errorf("expected Room full, got %s", resp.Body.String())
	}

	resp = doPage(router, http.MethodGet, "/sleep.html", student, nil)
	body := resp.Body.String()
	if n := strings.Count(body, `<div class="request-card pending">`); n != 1 {
		t.Errorf("expected one pending card, got %d", n)
	}
	if !strings.Contains(body, "11/2/2026") {
		t.Error("expected the formatted night")
	}

	resp = doPage(router, http.MethodGet, "/sleep.html", other, nil)
	if !strings.Contains(resp.Body.String(), noData) {
		t.Error("other student should see no requests")
	}

	resp = doPage(router, http.MethodGet, "/admin_sleepover.html", admin, nil)
	if !strings.Contains(resp.Body.String(), `href="sleepover_verify.html?id=`+stored[0].ID.String()+`"`) {
		t.Errorf("expected admin link to the request, got %s", resp.Body.String())
	}

	resp = doPage(router, http.MethodPost, "/sleepover_verify.html", admin, url.Values{
		"id": {stored[0].ID.String()}, "action": {"approve"},
	})
	if resp.Header().Get("Location") != "/admin_sleepover.html?verified=APPROVED" {
		t.Fatalf("unexpected verify result %d %q", resp.Code, resp.Header().Get("Location"))
	}

	resp = doPage(router, http.MethodGet, "/sleep.html", student, nil)
	if !strings.Contains(resp.Body.String(), `<div class="request-card approved">`) {
		t.Error("expected the request to show as approved")
	}
}
