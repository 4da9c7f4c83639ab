package apiclient

import (
	"context"
	"net/http"
)

const StatusPending = "PENDING"

// Sleepover is a request as the pages see it; ids and status are opaque strings
type Sleepover struct {
	ID           string `json:"id"`
	StudentID    uint   `json:"studentId"`
	RoomID       string `json:"roomId"`
	VisitorName  string `json:"visitorName"`
	VisitorID    string `json:"visitorId"`
	PhoneNumber  string `json:"phoneNumber"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	StudentName  string `json:"studentName,omitempty"`
	StudentEmail string `json:"studentEmail,omitempty"`
	ReviewNote   string `json:"reviewNote,omitempty"`
}

// NewSleepover is the create body
type NewSleepover struct {
	StudentID   uint   `json:"studentId"`
	RoomID      string `json:"roomId"`
	VisitorName string `json:"visitorName"`
	VisitorID   string `json:"visitorId"`
	PhoneNumber string `json:"phoneNumber"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

type Verification struct {
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.Call(ctx, Endpoints.Login, http.MethodPost, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSleepover(ctx context.Context, in NewSleepover) (*Sleepover, error) {
	var out Sleepover
	if err := c.Call(ctx, Endpoints.Create, http.MethodPost, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StudentSleepovers(ctx context.Context, studentID uint) ([]Sleepover, error) {
	var out []Sleepover
	if err := c.Call(ctx, Endpoints.GetByStudent(studentID), http.MethodGet, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AllSleepovers(ctx context.Context) ([]Sleepover, error) {
	var out []Sleepover
	if err := c.Call(ctx, Endpoints.GetAll, http.MethodGet, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSleepover(ctx context.Context, id string) (*Sleepover, error) {
	var out Sleepover
	if err := c.Call(ctx, Endpoints.Get(id), http.MethodGet, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifySleepover(ctx context.Context, id string, v Verification) (*Sleepover, error) {
	var out Sleepover
	if err := c.Call(ctx, Endpoints.Verify(id), http.MethodPost, v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
