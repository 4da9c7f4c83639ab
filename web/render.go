// Package web serves the dormitory pages: sleepover submission, the student's own
// requests, and the admin review list with its verify page.
package web

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/CUknot/dorm_backend/apiclient"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template helper functions
var funcMap = template.FuncMap{
	"FormatDate":   FormatDate,
	"StatusClass":  StatusClass,
	"DetailURL":    DetailURL,
	"StudentLabel": StudentLabel,
}

var templates = template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))

// Templates returns the parsed page set, for gin's SetHTMLTemplate
func Templates() *template.Template {
	return templates
}

var dateLayouts = []string{"2006-01-02", time.RFC3339Nano, time.RFC3339}

// FormatDate renders a request date the way en-US toLocaleDateString does (1/2/2006).
func FormatDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return "Invalid Date"
}

// StatusClass is the CSS class for a status badge
func StatusClass(status string) string {
	return strings.ToLower(status)
}

// DetailURL is where an admin card navigates to
func DetailURL(id string) string {
	return "sleepover_verify.html?id=" + url.QueryEscape(id)
}

// StudentLabel prefers the student's name and falls back to the email
func StudentLabel(r apiclient.Sleepover) string {
	if r.StudentName != "" {
		return r.StudentName
	}
	return r.StudentEmail
}

// RenderStudentRequests writes the student cards, or the no-data message when requests is empty.
func RenderStudentRequests(w io.Writer, requests []apiclient.Sleepover) error {
	return templates.ExecuteTemplate(w, "student_requests", requests)
}

// RenderAdminRequests writes the clickable admin cards, or the no-data message when requests is empty.
func RenderAdminRequests(w io.Writer, requests []apiclient.Sleepover) error {
	return templates.ExecuteTemplate(w, "admin_requests", requests)
}
