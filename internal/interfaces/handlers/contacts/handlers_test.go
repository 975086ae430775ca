package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	contsvc "nexora-backend/internal/application/contacts"
	"nexora-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	contactCalls int
	lastTo       string
	lastSubject  string
}

func (m *recordingMailer) SendContactNotification(ctx context.Context, toEmail, fromName, fromEmail, subject, message string) error {
	m.contactCalls++
	m.lastTo = toEmail
	m.lastSubject = subject
	return nil
}

func (m *recordingMailer) SendApplicationStatus(ctx context.Context, toEmail, applicantName, position, status string) error {
	return nil
}

func (m *recordingMailer) SendWelcome(ctx context.Context, toEmail, firstName string) error {
	return nil
}

func setupContactsTest(t *testing.T) (*fiber.App, *gorm.DB, *recordingMailer) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Contact{}))

	mailer := &recordingMailer{}
	h := &Handlers{Service: &contsvc.Service{DB: db, Mailer: mailer, NotifyEmail: "ops@nexoratech.in"}}
	app := fiber.New()
	app.Post("/submit", h.SubmitContact)
	app.Get("/get-all-contacts", h.GetAllContacts)
	app.Patch("/mark-read/:contact_id", h.MarkRead)
	app.Patch("/mark-unread/:contact_id", h.MarkUnread)
	app.Delete("/delete-contact/:contact_id", h.DeleteContact)
	return app, db, mailer
}

func submit(t *testing.T, app *fiber.App, payload map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/submit", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestSubmitContact_RequiredFields(t *testing.T) {
	app, _, _ := setupContactsTest(t)
	code, _ := submit(t, app, map[string]interface{}{"name": "Alex"})
	assert.Equal(t, 400, code)
}

func TestSubmitContact_InvalidEmail(t *testing.T) {
	app, _, _ := setupContactsTest(t)
	code, _ := submit(t, app, map[string]interface{}{
		"name": "Alex", "email": "not-an-email", "message": "hi",
	})
	assert.Equal(t, 400, code)
}

func TestSubmitContact_StoresAndNotifies(t *testing.T) {
	app, db, mailer := setupContactsTest(t)
	code, result := submit(t, app, map[string]interface{}{
		"name":    "Alex Roy",
		"email":   "alex@example.com",
		"subject": "Project inquiry",
		"message": "We need a new website.",
	})
	require.Equal(t, 201, code)
	assert.Equal(t, "success", result["status"])

	var count int64
	db.Model(&domain.Contact{}).Count(&count)
	assert.EqualValues(t, 1, count)

	assert.Equal(t, 1, mailer.contactCalls)
	assert.Equal(t, "ops@nexoratech.in", mailer.lastTo)
	assert.Equal(t, "Project inquiry", mailer.lastSubject)
}

func TestContacts_UnreadCountAndMarkRead(t *testing.T) {
	app, _, _ := setupContactsTest(t)
	code, result := submit(t, app, map[string]interface{}{
		"name": "A", "email": "a@example.com", "message": "one",
	})
	require.Equal(t, 201, code)
	id := result["data"].(map[string]interface{})["id"].(string)
	code, _ = submit(t, app, map[string]interface{}{
		"name": "B", "email": "b@example.com", "message": "two",
	})
	require.Equal(t, 201, code)

	req := httptest.NewRequest("GET", "/get-all-contacts", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var listResult map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&listResult)
	meta := listResult["metadata"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["unreadCount"])

	req = httptest.NewRequest("PATCH", "/mark-read/"+id, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/get-all-contacts", nil)
	resp, _ = app.Test(req, -1)
	listResult = map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&listResult)
	meta = listResult["metadata"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["unreadCount"])
}

func TestDeleteContact_NotFound(t *testing.T) {
	app, _, _ := setupContactsTest(t)
	req := httptest.NewRequest("DELETE", "/delete-contact/00000000-0000-0000-0000-000000000009", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
