package projects

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	projsvc "nexora-backend/internal/application/projects"
	"nexora-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProjectsTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Project{}, &domain.OverrideNote{}))

	h := &Handlers{Service: &projsvc.Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": "00000000-0000-0000-0000-000000000001",
			"role":    "admin",
			"email":   "admin@test.com",
		})
		return c.Next()
	})
	app.Post("/create-project", h.CreateProject)
	app.Get("/get-all-projects", h.GetAllProjects)
	app.Get("/open-project/:project_id", h.OpenProject)
	app.Put("/update-project/:project_id", h.UpdateProject)
	app.Delete("/delete-project/:project_id", h.DeleteProject)
	app.Patch("/set-budget/:project_id", h.SetBudget)
	app.Post("/record-payment/:project_id", h.RecordPayment)
	app.Post("/override-payment/:project_id", h.OverridePayment)
	app.Get("/override-notes/:project_id", h.GetOverrideNotes)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func dataOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "expected data object, got %v", result)
	return data
}

func createProject(t *testing.T, app *fiber.App, body map[string]interface{}) (string, map[string]interface{}) {
	code, result := doJSON(t, app, "POST", "/create-project", body)
	require.Equal(t, 201, code)
	data := dataOf(t, result)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id, data
}

func TestCreateProject_MissingName(t *testing.T) {
	app, _ := setupProjectsTest(t)
	code, result := doJSON(t, app, "POST", "/create-project", map[string]interface{}{
		"client": "Acme",
	})
	assert.Equal(t, 400, code)
	assert.Equal(t, "error", result["status"])
}

func TestCreateProject_Defaults(t *testing.T) {
	app, _ := setupProjectsTest(t)
	_, data := createProject(t, app, map[string]interface{}{
		"name":   "Website Revamp",
		"client": "Acme",
		"budget": "30000",
	})
	assert.Equal(t, "planning", data["status"])
	assert.Equal(t, "medium", data["priority"])
	assert.Equal(t, "INR", data["currency"])
	assert.EqualValues(t, 30000, data["budget"])
	assert.EqualValues(t, 0, data["paidAmount"])
	assert.EqualValues(t, 30000, data["pendingAmount"])
}

func TestCreateProject_NonNumericBudgetCoercesToZero(t *testing.T) {
	app, _ := setupProjectsTest(t)
	_, data := createProject(t, app, map[string]interface{}{
		"name":   "Garbage Budget",
		"budget": "abc",
	})
	assert.EqualValues(t, 0, data["budget"])
	assert.EqualValues(t, 0, data["pendingAmount"])
}

func TestRecordPayment_Flow(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name":   "Mobile App",
		"budget": "30000",
	})

	code, result := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{
		"amount": "9000", "date": "2025-03-01", "mode": "UPI",
	})
	require.Equal(t, 200, code)
	assert.Equal(t, "Payment recorded successfully", result["message"])

	code, result = doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{
		"amount": "9000", "date": "2025-04-01", "mode": "Cash",
	})
	require.Equal(t, 200, code)

	data := dataOf(t, result)
	assert.EqualValues(t, 18000, data["paidAmount"])
	assert.EqualValues(t, 12000, data["pendingAmount"])

	history, ok := data["paymentHistory"].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 2)
	first := history[0].(map[string]interface{})
	second := history[1].(map[string]interface{})
	assert.Equal(t, "UPI", first["mode"])
	assert.Equal(t, "2025-03-01", first["date"])
	assert.Equal(t, "Cash", second["mode"])
	assert.NotEmpty(t, first["id"])
}

func TestRecordPayment_ZeroAmountIsNoop(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Zero Pay", "budget": "1000",
	})
	code, result := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{
		"amount": "not-a-number",
	})
	require.Equal(t, 200, code)
	assert.Equal(t, "No payment recorded", result["message"])

	data := dataOf(t, result)
	history, _ := data["paymentHistory"].([]interface{})
	assert.Len(t, history, 0)
}

func TestRecordPayment_OverpaymentGoesNegative(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Overpaid", "budget": "5000",
	})
	code, result := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{
		"amount": "7500",
	})
	require.Equal(t, 200, code)
	data := dataOf(t, result)
	assert.EqualValues(t, -2500, data["pendingAmount"])
}

func TestOpenProject_SelfHealsStaleTotals(t *testing.T) {
	app, db := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Drifted", "budget": "1000",
	})
	code, _ := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{"amount": "350"})
	require.Equal(t, 200, code)

	// Simulate drift from a partial write
	require.NoError(t, db.Model(&domain.Project{}).Where("id = ?", id).
		Update("paid_amount", 999).Error)

	code, result := doJSON(t, app, "GET", "/open-project/"+id, nil)
	require.Equal(t, 200, code)
	data := dataOf(t, result)
	assert.EqualValues(t, 350, data["paidAmount"])
	assert.EqualValues(t, 650, data["pendingAmount"])

	// Healed values were persisted
	var p domain.Project
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	assert.True(t, p.PaidAmount.IsPositive())
	assert.Equal(t, "350", p.PaidAmount.String())
}

func TestSetBudget_NonNumericCoercesToZero(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Budget Edit", "budget": "10000",
	})
	code, _ := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{"amount": "2000"})
	require.Equal(t, 200, code)

	code, result := doJSON(t, app, "PATCH", "/set-budget/"+id, map[string]interface{}{
		"budget": "garbage",
	})
	require.Equal(t, 200, code)
	data := dataOf(t, result)
	assert.EqualValues(t, 0, data["budget"])
	assert.EqualValues(t, 2000, data["paidAmount"])
	assert.EqualValues(t, -2000, data["pendingAmount"])
}

func TestOverridePayment_RequiresJustification(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Audit", "budget": "1000",
	})
	code, result := doJSON(t, app, "POST", "/override-payment/"+id, map[string]interface{}{
		"paid": "500",
	})
	assert.Equal(t, 400, code)
	assert.Equal(t, "error", result["status"])
}

func TestOverridePayment_EntryAmountAndAuditNote(t *testing.T) {
	app, db := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Audit Trail", "budget": "10000",
	})
	code, result := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{"amount": "4000"})
	require.Equal(t, 200, code)
	history := dataOf(t, result)["paymentHistory"].([]interface{})
	entryID := history[0].(map[string]interface{})["id"].(string)

	code, result = doJSON(t, app, "POST", "/override-payment/"+id, map[string]interface{}{
		"entry_id":      entryID,
		"amount":        "4500",
		"justification": "Client paid 4500, typo when recording",
	})
	require.Equal(t, 200, code)
	data := dataOf(t, result)
	assert.EqualValues(t, 4500, data["paidAmount"])
	assert.EqualValues(t, 5500, data["pendingAmount"])

	var notes []domain.OverrideNote
	require.NoError(t, db.Where("project_id = ?", id).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, "entry", notes[0].Field)
	assert.Equal(t, "4000", notes[0].PreviousAmount.String())
	assert.Equal(t, "4500", notes[0].NewAmount.String())
	require.NotNil(t, notes[0].ActorEmail)
	assert.Equal(t, "admin@test.com", *notes[0].ActorEmail)

	code, result = doJSON(t, app, "GET", "/override-notes/"+id, nil)
	require.Equal(t, 200, code)
	list, ok := result["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestOverridePayment_UnknownEntry(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "No Entry", "budget": "1000",
	})
	code, _ := doJSON(t, app, "POST", "/override-payment/"+id, map[string]interface{}{
		"entry_id":      "00000000-0000-0000-0000-00000000dead",
		"amount":        "10",
		"justification": "testing",
	})
	assert.Equal(t, 404, code)
}

func TestUpdateProject_BudgetRederivesPending(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Update Budget", "budget": "10000",
	})
	code, _ := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{"amount": "1000"})
	require.Equal(t, 200, code)

	code, result := doJSON(t, app, "PUT", "/update-project/"+id, map[string]interface{}{
		"budget": 20000,
		"status": "active",
	})
	require.Equal(t, 200, code)
	data := dataOf(t, result)
	assert.Equal(t, "active", data["status"])
	assert.EqualValues(t, 20000, data["budget"])
	assert.EqualValues(t, 19000, data["pendingAmount"])
}

func TestDeleteProject_RemovesAuditNotes(t *testing.T) {
	app, db := setupProjectsTest(t)
	id, _ := createProject(t, app, map[string]interface{}{
		"name": "Doomed", "budget": "100",
	})
	code, result := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{"amount": "50"})
	require.Equal(t, 200, code)
	entryID := dataOf(t, result)["paymentHistory"].([]interface{})[0].(map[string]interface{})["id"].(string)
	code, _ = doJSON(t, app, "POST", "/override-payment/"+id, map[string]interface{}{
		"entry_id": entryID, "amount": "60", "justification": "fix",
	})
	require.Equal(t, 200, code)

	code, _ = doJSON(t, app, "DELETE", "/delete-project/"+id, nil)
	require.Equal(t, 200, code)

	var count int64
	db.Model(&domain.OverrideNote{}).Where("project_id = ?", id).Count(&count)
	assert.EqualValues(t, 0, count)

	code, _ = doJSON(t, app, "GET", "/open-project/"+id, nil)
	assert.Equal(t, 404, code)
}

func TestOpenProject_InvalidUUID(t *testing.T) {
	app, _ := setupProjectsTest(t)
	code, _ := doJSON(t, app, "GET", "/open-project/not-a-uuid", nil)
	assert.Equal(t, 400, code)
}

func TestCreateProject_LegacyPaidAmountKeptUntilFirstEntry(t *testing.T) {
	app, _ := setupProjectsTest(t)
	id, data := createProject(t, app, map[string]interface{}{
		"name": "Migrated", "budget": "10000", "paidAmount": "500",
	})
	assert.EqualValues(t, 500, data["paidAmount"])
	assert.EqualValues(t, 9500, data["pendingAmount"])

	// First real entry takes over; manual value no longer counts
	code, result := doJSON(t, app, "POST", "/record-payment/"+id, map[string]interface{}{"amount": "700"})
	require.Equal(t, 200, code)
	after := dataOf(t, result)
	assert.EqualValues(t, 700, after["paidAmount"])
	assert.EqualValues(t, 9300, after["pendingAmount"])
}
