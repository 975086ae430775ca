package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	projsvc "nexora-backend/internal/application/projects"
	"nexora-backend/internal/domain"
	"nexora-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WebhookHandler struct {
	DB            *gorm.DB
	WebhookSecret string
}

type gatewayEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type capturedPaymentObject struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"` // minor units (paise)
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// HandleWebhook POST /api/v1/gateway/webhook — raw body, signature verification, then process.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get("Gateway-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("gateway webhook received empty body (ensure no global body parser consumes the webhook body)")
		return c.Status(400).SendString("Webhook Error: empty body")
	}

	if err := verifyGatewaySignature(rawBody, sig, wh.WebhookSecret); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Bool("has_secret", wh.WebhookSecret != "").Msg("gateway webhook signature verification failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	var event gatewayEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("gateway webhook JSON parse failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if event.Type == "payment.captured" {
		var obj capturedPaymentObject
		if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
			return c.Status(200).SendString("ok")
		}
		if err := wh.handlePaymentCaptured(obj, event.ID, rawBody); err != nil {
			// 200 even on domain errors so the gateway does not retry forever
			log.Warn().Err(err).Str("payment_ref", obj.ID).Msg("gateway webhook processing failed")
			return c.Status(200).SendString("ok")
		}
	}

	return c.Status(200).SendString("ok")
}

func (wh *WebhookHandler) handlePaymentCaptured(obj capturedPaymentObject, eventID string, rawBody []byte) error {
	projectIDStr := obj.Notes["project_id"]
	if projectIDStr == "" || obj.Amount <= 0 {
		return nil // not a project payment, skip silently
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return nil
	}
	// Minor units to rupees
	amount := decimal.NewFromInt(obj.Amount).Div(decimal.NewFromInt(100))

	return wh.DB.Transaction(func(tx *gorm.DB) error {
		// Idempotency: each gateway payment ref is processed once
		var existing domain.GatewayPayment
		if err := tx.Where("gateway_payment_ref = ?", obj.ID).First(&existing).Error; err == nil {
			return nil
		}

		var p domain.Project
		if err := tx.Where("id = ?", projectID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New("Project not found")
			}
			return err
		}

		payment := domain.GatewayPayment{
			GatewayPaymentRef: obj.ID,
			GatewayEventID:    eventID,
			ProjectID:         projectID,
			Amount:            amount,
			Currency:          obj.Currency,
			Status:            obj.Status,
			RawEvent:          rawBody,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		draft, err := projsvc.Draft(&p)
		if err != nil {
			return err
		}
		draft = draft.RecordPayment(amount, ledger.Today(), ledger.ModeOnlineBanking)
		if err := projsvc.Apply(&p, draft); err != nil {
			return err
		}
		return tx.Save(&p).Error
	})
}

// verifyGatewaySignature verifies the Gateway-Signature header ("t=...,v1=...")
// with HMAC-SHA256 over "timestamp.payload" and a 5 minute tolerance.
func verifyGatewaySignature(payload []byte, sigHeader, secret string) error {
	if sigHeader == "" || secret == "" {
		return errors.New("missing signature or secret")
	}

	var timestamp string
	var signatures []string

	parts := strings.Split(sigHeader, ",")
	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return errors.New("invalid signature format")
	}

	signedPayload := timestamp + "." + string(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expectedSig)) {
			ts, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil {
				return errors.New("invalid timestamp")
			}
			diff := time.Now().Unix() - ts
			if diff < 0 {
				diff = -diff
			}
			if diff > 300 {
				return errors.New("timestamp too old")
			}
			return nil
		}
	}

	return errors.New("signature mismatch")
}
