package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/CUknot/dorm_backend/apiclient"
	"github.com/CUknot/dorm_backend/models"
	"github.com/CUknot/dorm_backend/utils"
	"github.com/gin-gonic/gin"
)

// fakeAPI records calls and returns canned answers
type fakeAPI struct {
	creates   []apiclient.NewSleepover
	createErr error

	list    []apiclient.Sleepover
	listErr error
	listFor []uint

	request   *apiclient.Sleepover
	verifies  []apiclient.Verification
	verifyErr error

	token string
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error) {
	if password != "secret123" {
		return nil, &apiclient.APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	role := models.RoleStudent
	if strings.HasPrefix(email, "warden") {
		role = models.RoleAdmin
	}
	token, _ := utils.GenerateToken(5, role)
	return &apiclient.LoginResult{Token: token, User: apiclient.User{ID: 5, Email: email, Role: role}}, nil
}

func (f *fakeAPI) CreateSleepover(ctx context.Context, in apiclient.NewSleepover) (*apiclient.Sleepover, error) {
	f.creates = append(f.creates, in)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &apiclient.Sleepover{ID: "new", Status: in.Status}, nil
}

func (f *fakeAPI) StudentSleepovers(ctx context.Context, studentID uint) ([]apiclient.Sleepover, error) {
	f.listFor = append(f.listFor, studentID)
	return f.list, f.listErr
}

func (f *fakeAPI) AllSleepovers(ctx context.Context) ([]apiclient.Sleepover, error) {
	return f.list, f.listErr
}

func (f *fakeAPI) GetSleepover(ctx context.Context, id string) (*apiclient.Sleepover, error) {
	if f.request == nil || f.request.ID != id {
		return nil, &apiclient.APIError{Status: http.StatusNotFound, Message: "Sleepover request not found"}
	}
	return f.request, nil
}

func (f *fakeAPI) VerifySleepover(ctx context.Context, id string, v apiclient.Verification) (*apiclient.Sleepover, error) {
	f.token = tokenOf(ctx)
	f.verifies = append(f.verifies, v)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	out := *f.request
	out.Status = models.StatusApproved
	return &out, nil
}

// tokenOf reads the bearer token the same way the client does, via a throwaway request
func tokenOf(ctx context.Context) string {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}))
	defer server.Close()
	apiclient.New(server.URL).Call(ctx, "/", http.MethodGet, nil, nil)
	return got
}

func setupPages(t *testing.T, api *fakeAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("web-test-secret", time.Hour)

	router := gin.New()
	NewManager(api, 1500*time.Millisecond).RegisterRoutes(router)
	return router
}

func sessionToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func doPage(router *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func sleepoverForm() url.Values {
	return url.Values{
		"room-number":  {"A-204"},
		"visitor-name": {"Nok Saelim"},
		"visitor-id":   {"1103700012345"},
		"phone-number": {"081-234-5678"},
		"date":         {"2026-11-02"},
	}
}

func TestSubmitSleepoverSendsOnePendingCreate(t *testing.T) {
	api := &fakeAPI{}
	router := setupPages(t, api)

	form := sleepoverForm()
	form.Set("status", "APPROVED")
	resp := doPage(router, http.MethodPost, "/sleepover.html", sessionToken(t, 3, models.RoleStudent), form)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if len(api.creates) != 1 {
		t.Fatalf("expected exactly one create call, got %d", len(api.creates))
	}
	got := api.creates[0]
	want := apiclient.NewSleepover{
		StudentID:   3,
		RoomID:      "A-204",
		VisitorName: "Nok Saelim",
		VisitorID:   "1103700012345",
		PhoneNumber: "081-234-5678",
		Date:        "2026-11-02",
		Status:      "PENDING",
	}
	if got != want {
		t.Errorf("unexpected create body\n got %+v\nwant %+v", got, want)
	}

	body := resp.Body.String()
	if !strings.Contains(body, submitSuccessMessage) {
		t.Error("expected the success message")
	}
	if !strings.Contains(body, `content="1.5;url=sleep.html"`) {
		t.Errorf("expected a delayed redirect to sleep.html, got %s", body)
	}
	if strings.Contains(body, `id="sleepover-form"`) {
		t.Error("form should not be shown again after success")
	}
}

func TestSubmitSleepoverShowsAPIError(t *testing.T) {
	api := &fakeAPI{createErr: &apiclient.APIError{Status: http.StatusConflict, Message: "Room full"}}
	router := setupPages(t, api)

	resp := doPage(router, http.MethodPost, "/sleepover.html", sessionToken(t, 3, models.RoleStudent), sleepoverForm())

	if resp.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `<div class="alert error">Room full</div>`) {
		t.Errorf("expected the API message, got %s", body)
	}
	if !strings.Contains(body, `value="Nok Saelim"`) {
		t.Error("expected the form to keep the typed values")
	}
	if len(api.creates) != 1 {
		t.Errorf("expected no retry, got %d calls", len(api.creates))
	}
}

func TestSubmitSleepoverDefaultError(t *testing.T) {
	for name, err := range map[string]error{
		"api error without message": &apiclient.APIError{Status: http.StatusInternalServerError},
		"network failure":           errors.New("POST /api/sleepovers: connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			router := setupPages(t, &fakeAPI{createErr: err})
			resp := doPage(router, http.MethodPost, "/sleepover.html", sessionToken(t, 3, models.RoleStudent), sleepoverForm())
			if !strings.Contains(resp.Body.String(), `<div class="alert error">`+submitFailedMessage+`</div>`) {
				t.Errorf("expected default message, got %s", resp.Body.String())
			}
		})
	}
}

func TestPagesRequireSession(t *testing.T) {
	router := setupPages(t, &fakeAPI{})

	for _, path := range []string{"/sleep.html", "/sleepover.html", "/admin_sleepover.html"} {
		resp := doPage(router, http.MethodGet, path, "", nil)
		if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/login.html" {
			t.Errorf("%s: expected redirect to login, got %d %q", path, resp.Code, resp.Header().Get("Location"))
		}
	}

	resp := doPage(router, http.MethodGet, "/admin_sleepover.html", sessionToken(t, 3, models.RoleStudent), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("expected 403 for student on admin page, got %d", resp.Code)
	}
}

func TestStudentRequestsPage(t *testing.T) {
	api := &fakeAPI{list: sampleRequests()}
	router := setupPages(t, api)

	resp := doPage(router, http.MethodGet, "/sleep.html", sessionToken(t, 3, models.RoleStudent), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if len(api.listFor) != 1 || api.listFor[0] != 3 {
		t.Errorf("expected requests of student 3, got %v", api.listFor)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `<div id="sleepover-requests-container">`) {
		t.Error("missing container")
	}
	if n := strings.Count(body, `<div class="request-card `); n != 3 {
		t.Errorf("expected 3 cards, got %d", n)
	}
}

func TestStudentRequestsPageEmpty(t *testing.T) {
	router := setupPages(t, &fakeAPI{})

	resp := doPage(router, http.MethodGet, "/sleep.html", sessionToken(t, 3, models.RoleStudent), nil)
	if !strings.Contains(resp.Body.String(), noData) {
		t.Errorf("expected no-data message, got %s", resp.Body.String())
	}
}

func TestRequestsPageLoadFailure(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("boom")}
	router := setupPages(t, api)

	for path, role := range map[string]string{"/sleep.html": models.RoleStudent, "/admin_sleepover.html": models.RoleAdmin} {
		resp := doPage(router, http.MethodGet, path, sessionToken(t, 1, role), nil)
		body := resp.Body.String()
		if !strings.Contains(body, `<div class="alert error">`+loadFailedMessage+`</div>`) {
			t.Errorf("%s: expected load failure message", path)
		}
		if strings.Contains(body, "no-data") {
			t.Errorf("%s: failure should not render the no-data message", path)
		}
	}
}

func TestAdminRequestsPage(t *testing.T) {
	router := setupPages(t, &fakeAPI{list: sampleRequests()})

	resp := doPage(router, http.MethodGet, "/admin_sleepover.html?verified=APPROVED", sessionToken(t, 1, models.RoleAdmin), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `<div id="admin-sleepover-container">`) {
		t.Error("missing container")
	}
	if !strings.Contains(body, `href="sleepover_verify.html?id=abc123"`) {
		t.Error("expected card link to the verify page")
	}
	if !strings.Contains(body, "Sleepover request approved.") {
		t.Error("expected verification notice")
	}
}

func TestVerifyFlow(t *testing.T) {
	api := &fakeAPI{request: &apiclient.Sleepover{ID: "abc123", VisitorName: "Nok", Status: "PENDING", Date: "2026-11-02", StudentName: "Ana"}}
	router := setupPages(t, api)
	token := sessionToken(t, 1, models.RoleAdmin)

	resp := doPage(router, http.MethodGet, "/sleepover_verify.html?id=abc123", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `id="verify-form"`) {
		t.Error("pending request should offer the verify form")
	}

	resp = doPage(router, http.MethodGet, "/sleepover_verify.html?id=missing", token, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", resp.Code)
	}

	resp = doPage(router, http.MethodPost, "/sleepover_verify.html", token, url.Values{
		"id":     {"abc123"},
		"action": {"approve"},
		"note":   {"ok"},
	})
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/admin_sleepover.html?verified=APPROVED" {
		t.Errorf("unexpected redirect %q", loc)
	}
	if len(api.verifies) != 1 || api.verifies[0] != (apiclient.Verification{Action: "approve", Note: "ok"}) {
		t.Errorf("unexpected verify calls %+v", api.verifies)
	}
	if api.token != token {
		t.Error("expected the session token to be forwarded to the API")
	}
}

func TestVerifyErrorShowsMessage(t *testing.T) {
	api := &fakeAPI{
		request:   &apiclient.Sleepover{ID: "abc123", Status: "APPROVED", Date: "2026-11-02"},
		verifyErr: &apiclient.APIError{Status: http.StatusNotFound, Message: "Sleepover request not found or already processed"},
	}
	router := setupPages(t, api)

	resp := doPage(router, http.MethodPost, "/sleepover_verify.html", sessionToken(t, 1, models.RoleAdmin), url.Values{
		"id": {"abc123"}, "action": {"reject"},
	})
	body := resp.Body.String()
	if !strings.Contains(body, "Sleepover request not found or already processed") {
		t.Errorf("expected API message, got %s", body)
	}
	if strings.Contains(body, `id="verify-form"`) {
		t.Error("processed request should not offer the verify form")
	}
}

func TestLoginSetsCookieAndRedirectsByRole(t *testing.T) {
	router := setupPages(t, &fakeAPI{})

	resp := doPage(router, http.MethodPost, "/login.html", "", url.Values{"email": {"ana@dorm.test"}, "password": {"nope"}})
	if resp.Code != http.StatusUnauthorized || !strings.Contains(resp.Body.String(), "Invalid email or password") {
		t.Errorf("expected login error, got %d", resp.Code)
	}

	resp = doPage(router, http.MethodPost, "/login.html", "", url.Values{"email": {"warden@dorm.test"}, "password": {"secret123"}})
	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/admin_sleepover.html" {
		t.Errorf("expected admin redirect, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), sessionCookie+"=") {
		t.Error("expected session cookie")
	}

	resp = doPage(router, http.MethodPost, "/login.html", "", url.Values{"email": {"ana@dorm.test"}, "password": {"secret123"}})
	if resp.Header().Get("Location") != "/sleep.html" {
		t.Errorf("expected student redirect, got %q", resp.Header().Get("Location"))
	}
}

func TestLogoutClearsSession(t *testing.T) {
	router := setupPages(t, &fakeAPI{})

	resp := doPage(router, http.MethodPost, "/logout", sessionToken(t, 3, models.RoleStudent), nil)
	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/login.html" {
		t.Fatalf("expected redirect to login, got %d %q", resp.Code, resp.Header().Get("Location"))
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookie {
		t.Fatalf("expected the session cookie to be reset, got %v", cookies)
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expired empty cookie, got value %q max-age %d", cookies[0].Value, cookies[0].MaxAge)
	}
}
