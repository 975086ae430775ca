package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nexora-backend/internal/domain"
	"nexora-backend/internal/ledger"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "whsec_test_secret_123"

func setupWebhookTest(t *testing.T) (*WebhookHandler, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Project{}, &domain.GatewayPayment{}))
	wh := &WebhookHandler{DB: db, WebhookSecret: testSecret}
	return wh, db
}

func signPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + string(payload)))
	sig := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("t=%s,v1=%s", ts, sig)
}

func postEvent(t *testing.T, wh *WebhookHandler, body []byte, sign bool) int {
	t.Helper()
	app := fiber.New()
	app.Post("/webhook", wh.HandleWebhook)
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if sign {
		req.Header.Set("Gateway-Signature", signPayload(t, body, testSecret))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func capturedEvent(eventID, paymentRef, projectID string, amountPaise int64) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"id":   eventID,
		"type": "payment.captured",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       paymentRef,
				"amount":   amountPaise,
				"currency": "INR",
				"status":   "captured",
				"notes":    map[string]string{"project_id": projectID},
			},
		},
	})
	return b
}

func newTestProject(t *testing.T, db *gorm.DB, budget string) domain.Project {
	t.Helper()
	p := domain.Project{
		Name:           "Gateway Project",
		Budget:         decimal.RequireFromString(budget),
		PendingAmount:  decimal.RequireFromString(budget),
		PaymentHistory: []byte("[]"),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestWebhook_MissingSignature(t *testing.T) {
	wh, _ := setupWebhookTest(t)
	code := postEvent(t, wh, []byte(`{}`), false)
	assert.Equal(t, 400, code)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	wh, _ := setupWebhookTest(t)
	app := fiber.New()
	app.Post("/webhook", wh.HandleWebhook)
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"type":"payment.captured"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Gateway-Signature", "t=123,v1=invalid")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestWebhook_UnknownEventType_Returns200(t *testing.T) {
	wh, _ := setupWebhookTest(t)
	body, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_other",
		"type": "refund.processed",
		"data": map[string]interface{}{"object": map[string]interface{}{}},
	})
	code := postEvent(t, wh, body, true)
	assert.Equal(t, 200, code)
}

func TestWebhook_PaymentCaptured_AppendsLedgerEntry(t *testing.T) {
	wh, db := setupWebhookTest(t)
	p := newTestProject(t, db, "30000")

	// 9000 rupees in paise
	code := postEvent(t, wh, capturedEvent("evt_1", "pay_001", p.ID.String(), 900000), true)
	require.Equal(t, 200, code)

	var got domain.Project
	require.NoError(t, db.Where("id = ?", p.ID).First(&got).Error)
	assert.Equal(t, "9000", got.PaidAmount.String())
	assert.Equal(t, "21000", got.PendingAmount.String())

	history, err := ledger.DecodeHistory(got.PaymentHistory)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, ledger.ModeOnlineBanking, history[0].Mode)
	assert.Equal(t, "9000", history[0].Amount.String())

	var payment domain.GatewayPayment
	require.NoError(t, db.Where("gateway_payment_ref = ?", "pay_001").First(&payment).Error)
	assert.Equal(t, p.ID, payment.ProjectID)
	assert.Equal(t, "captured", payment.Status)
}

func TestWebhook_DuplicateDelivery_IsIdempotent(t *testing.T) {
	wh, db := setupWebhookTest(t)
	p := newTestProject(t, db, "10000")

	body := capturedEvent("evt_dup", "pay_dup", p.ID.String(), 500000)
	require.Equal(t, 200, postEvent(t, wh, body, true))
	require.Equal(t, 200, postEvent(t, wh, body, true))

	var got domain.Project
	require.NoError(t, db.Where("id = ?", p.ID).First(&got).Error)
	assert.Equal(t, "5000", got.PaidAmount.String())

	history, err := ledger.DecodeHistory(got.PaymentHistory)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	var count int64
	db.Model(&domain.GatewayPayment{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestWebhook_MissingProjectNote_SkippedSilently(t *testing.T) {
	wh, db := setupWebhookTest(t)
	body, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_nonote",
		"type": "payment.captured",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id": "pay_nonote", "amount": 1000, "currency": "INR",
				"status": "captured", "notes": map[string]string{},
			},
		},
	})
	assert.Equal(t, 200, postEvent(t, wh, body, true))

	var count int64
	db.Model(&domain.GatewayPayment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestWebhook_UnknownProject_Returns200WithoutRecord(t *testing.T) {
	wh, db := setupWebhookTest(t)
	code := postEvent(t, wh, capturedEvent("evt_ghost", "pay_ghost", uuid.New().String(), 1000), true)
	assert.Equal(t, 200, code)

	var count int64
	db.Model(&domain.GatewayPayment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
