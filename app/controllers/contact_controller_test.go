package controllers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/app/controllers"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/database"
	"github.com/workhive/workhive/pkg/event"
	"github.com/workhive/workhive/pkg/router"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContactSubmission{}))
	return db
}

type wireEnvelope struct {
	Status int               `json:"status"`
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func contactRouter(t *testing.T) (*router.Router, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	ctrl := controllers.NewContactController(
		services.NewContactService(repositories.NewContactRepository(db)))

	r := router.New()
	r.Post("/api/contact", "contact.submit", ctrl.Submit)
	r.Get("/api/contact", "contact.list", ctrl.List)
	r.Patch("/api/contact/{id}/status", "contact.status", ctrl.UpdateStatus)
	return r, db
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, wireEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env wireEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestContactSubmitReturnsOKAndPersists(t *testing.T) {
	r, db := contactRouter(t)
	event.Flush()
	t.Cleanup(event.Flush)

	rec, env := doJSON(t, r.Handler(), http.MethodPost, "/api/contact",
		`{"name":"Asha","email":"asha@example.com","subject":"Hiring","message":"Looking for a Go developer."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, env.Status)
	require.Empty(t, env.Error)

	var stored models.ContactSubmission
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, "asha@example.com", stored.Email)
	require.Equal(t, models.ContactNew, stored.Status)
}

func TestContactSubmitValidationReturnsFieldErrors(t *testing.T) {
	r, _ := contactRouter(t)

	rec, env := doJSON(t, r.Handler(), http.MethodPost, "/api/contact",
		`{"name":"A","email":"not-an-email","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation failed", env.Error)
	require.Contains(t, env.Fields, "name")
	require.Contains(t, env.Fields, "email")
	require.Contains(t, env.Fields, "subject")
	require.Contains(t, env.Fields, "message")
}

func TestContactSubmitSucceedsWhenListenerFails(t *testing.T) {
	r, _ := contactRouter(t)
	event.Flush()
	t.Cleanup(event.Flush)
	event.Listen(event.ContactSubmitted, func(interface{}) {
		panic(errors.New("broken listener"))
	})

	// Fan-out runs behind the event bus; a failing listener must not
	// surface to the submitter.
	rec, _ := doJSON(t, r.Handler(), http.MethodPost, "/api/contact",
		`{"name":"Asha","email":"asha@example.com","subject":"Hiring","message":"Looking for a Go developer."}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestContactStatusFlow(t *testing.T) {
	r, db := contactRouter(t)

	sub := models.ContactSubmission{Name: "Asha", Email: "a@example.com", Subject: "Hi", Message: "Hello there", Status: models.ContactNew}
	require.NoError(t, db.Create(&sub).Error)
	path := fmt.Sprintf("/api/contact/%d/status", sub.ID)

	// NEW cannot jump straight to REPLIED.
	rec, _ := doJSON(t, r.Handler(), http.MethodPatch, path, `{"status":"REPLIED"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = doJSON(t, r.Handler(), http.MethodPatch, path, `{"status":"READ"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, r.Handler(), http.MethodPatch, path, `{"status":"REPLIED"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.ContactSubmission
	require.NoError(t, db.First(&stored, sub.ID).Error)
	require.Equal(t, models.ContactReplied, stored.Status)
}

func TestContactListNeverErrors(t *testing.T) {
	r, db := contactRouter(t)

	// Drop the table: the admin inbox degrades to an empty list.
	require.NoError(t, db.Migrator().DropTable(&models.ContactSubmission{}))

	rec, env := doJSON(t, r.Handler(), http.MethodGet, "/api/contact", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, env.Status)
}
