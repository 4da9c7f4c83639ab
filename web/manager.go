package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/CUknot/dorm_backend/apiclient"
	"github.com/gin-gonic/gin"
)

const (
	submitSuccessMessage = "Sleepover request submitted successfully!"
	submitFailedMessage  = "Failed to submit sleepover request"
	loadFailedMessage    = "Failed to load sleepover requests"
)

// SleepoverAPI is the part of the API the pages use; *apiclient.Client implements it
type SleepoverAPI interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error)
	CreateSleepover(ctx context.Context, in apiclient.NewSleepover) (*apiclient.Sleepover, error)
	StudentSleepovers(ctx context.Context, studentID uint) ([]apiclient.Sleepover, error)
	AllSleepovers(ctx context.Context) ([]apiclient.Sleepover, error)
	GetSleepover(ctx context.Context, id string) (*apiclient.Sleepover, error)
	VerifySleepover(ctx context.Context, id string, v apiclient.Verification) (*apiclient.Sleepover, error)
}

// Manager handles the sleepover pages
type Manager struct {
	api           SleepoverAPI
	redirectDelay time.Duration
}

// NewManager builds the page handlers on top of api
func NewManager(api SleepoverAPI, redirectDelay time.Duration) *Manager {
	return &Manager{api: api, redirectDelay: redirectDelay}
}

// page is the data every template receives
type page struct {
	Title   string
	User    *Session
	Success string
	Error   string
	Message string

	RedirectTo    string
	RedirectAfter string

	Email string
	Form  apiclient.NewSleepover

	Loaded   bool
	Requests []apiclient.Sleepover
	Request  *apiclient.Sleepover
}

func render(c *gin.Context, status int, name string, data page) {
	if data.User == nil {
		data.User = CurrentUser(c)
	}
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, status int, title, message string) {
	render(c, status, "error.html", page{Title: title, Message: message})
}

// errorMessage picks the API's message when there is one
func errorMessage(err error, fallback string) (int, string) {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Status, apiErr.Message
		}
		return apiErr.Status, fallback
	}
	return http.StatusBadGateway, fallback
}

// RegisterRoutes mounts the pages on router
func (m *Manager) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(Templates())

	router.GET("/", func(c *gin.Context) {
		if s := sessionFrom(c); s != nil {
			c.Redirect(http.StatusSeeOther, homeFor(s.Role))
			return
		}
		c.Redirect(http.StatusSeeOther, "/login.html")
	})
	router.GET("/login.html", m.LoginPage)
	router.POST("/login.html", m.Login)
	router.POST("/logout", m.Logout)

	pages := router.Group("/", RequireSession())
	{
		pages.GET("/sleepover.html", m.SleepoverForm)
		pages.POST("/sleepover.html", m.SubmitSleepover)
		pages.GET("/sleep.html", m.StudentRequestsPage)
	}

	admin := router.Group("/", RequireSession(), RequireAdmin())
	{
		admin.GET("/admin_sleepover.html", m.AdminRequestsPage)
		admin.GET("/sleepover_verify.html", m.VerifyPage)
		admin.POST("/sleepover_verify.html", m.SubmitVerification)
	}

	router.NoRoute(func(c *gin.Context) {
		renderError(c, http.StatusNotFound, "Page Not Found", "The page you are looking for does not exist.")
	})
}

// LoginPage shows the login form
func (m *Manager) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", page{Title: "Log in"})
}

// Login exchanges credentials for a token and stores it in the session cookie
func (m *Manager) Login(c *gin.Context) {
	email := c.PostForm("email")

	result, err := m.api.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		status, msg := errorMessage(err, "Login failed")
		render(c, status, "login.html", page{Title: "Log in", Email: email, Error: msg})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, result.Token, 0, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, homeFor(result.User.Role))
}

// Logout clears the session cookie
func (m *Manager) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login.html")
}

// SleepoverForm shows an empty request form
func (m *Manager) SleepoverForm(c *gin.Context) {
	render(c, http.StatusOK, "sleepover.html", page{Title: "New sleepover request"})
}

// SubmitSleepover sends the form as a new PENDING request. Any status field in the form is ignored.
func (m *Manager) SubmitSleepover(c *gin.Context) {
	user := CurrentUser(c)

	request := apiclient.NewSleepover{
		StudentID:   user.UserID,
		RoomID:      c.PostForm("room-number"),
		VisitorName: c.PostForm("visitor-name"),
		VisitorID:   c.PostForm("visitor-id"),
		PhoneNumber: c.PostForm("phone-number"),
		Date:        c.PostForm("date"),
		Status:      apiclient.StatusPending,
	}

	if _, err := m.api.CreateSleepover(user.Context(c.Request.Context()), request); err != nil {
		status, msg := errorMessage(err, submitFailedMessage)
		render(c, status, "sleepover.html", page{Title: "New sleepover request", Error: msg, Form: request})
		return
	}

	render(c, http.StatusOK, "sleepover.html", page{
		Title:         "New sleepover request",
		Success:       submitSuccessMessage,
		RedirectTo:    "sleep.html",
		RedirectAfter: strconv.FormatFloat(m.redirectDelay.Seconds(), 'f', -1, 64),
	})
}

// StudentRequestsPage lists the current student's requests
func (m *Manager) StudentRequestsPage(c *gin.Context) {
	user := CurrentUser(c)
	data := page{Title: "My sleepover requests"}

	requests, err := m.api.StudentSleepovers(user.Context(c.Request.Context()), user.UserID)
	if err != nil {
		log.Printf("Failed to load sleepover requests: %v", err)
		data.Error = loadFailedMessage
	} else {
		data.Loaded, data.Requests = true, requests
	}

	render(c, http.StatusOK, "sleep.html", data)
}

// AdminRequestsPage lists every request for review
func (m *Manager) AdminRequestsPage(c *gin.Context) {
	user := CurrentUser(c)
	data := page{Title: "Sleepover requests"}

	if verified := c.Query("verified"); verified != "" {
		data.Success = "Sleepover request " + StatusClass(verified) + "."
	}

	requests, err := m.api.AllSleepovers(user.Context(c.Request.Context()))
	if err != nil {
		log.Printf("Failed to load sleepover requests: %v", err)
		data.Error = loadFailedMessage
	} else {
		data.Loaded, data.Requests = true, requests
	}

	render(c, http.StatusOK, "admin_sleepover.html", data)
}

// VerifyPage shows one request with the approve and reject actions
func (m *Manager) VerifyPage(c *gin.Context) {
	user := CurrentUser(c)
	id := c.Query("id")
	if id == "" {
		renderError(c, http.StatusBadRequest, "Bad Request", "Missing sleepover request id.")
		return
	}

	request, err := m.api.GetSleepover(user.Context(c.Request.Context()), id)
	if err != nil {
		status, msg := errorMessage(err, "Failed to load sleepover request")
		render(c, status, "sleepover_verify.html", page{Title: "Sleepover request", Error: msg})
		return
	}

	render(c, http.StatusOK, "sleepover_verify.html", page{Title: "Sleepover request", Request: request})
}

// SubmitVerification sends the admin's decision and returns to the list
func (m *Manager) SubmitVerification(c *gin.Context) {
	user := CurrentUser(c)
	ctx := user.Context(c.Request.Context())
	id := c.PostForm("id")

	verified, err := m.api.VerifySleepover(ctx, id, apiclient.Verification{
		Action: c.PostForm("action"),
		Note:   c.PostForm("note"),
	})
	if err != nil {
		status, msg := errorMessage(err, "Failed to update sleepover request")
		data := page{Title: "Sleepover request", Error: msg}
		// show the request again if it can still be loaded
		if request, loadErr := m.api.GetSleepover(ctx, id); loadErr == nil {
			data.Request = request
		}
		render(c, status, "sleepover_verify.html", data)
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin_sleepover.html?verified="+verified.Status)
}
