package quotations

import (
	"fmt"
	"time"

	quotsvc "nexora-backend/internal/application/quotations"
	"nexora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *quotsvc.Service
}

type itemBody struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

func toItemInputs(items []itemBody) []quotsvc.ItemInput {
	if items == nil {
		return nil
	}
	out := make([]quotsvc.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, quotsvc.ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return out
}

// POST /api/v1/quotations/create-quotation
func (h *Handlers) CreateQuotation(c *fiber.Ctx) error {
	var body struct {
		ClientName  string     `json:"clientName"`
		ClientEmail string     `json:"clientEmail"`
		Currency    string     `json:"currency"`
		ValidUntil  string     `json:"validUntil"`
		Items       []itemBody `json:"items"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	var validUntil *time.Time
	if body.ValidUntil != "" {
		if t, err := time.Parse("2006-01-02", body.ValidUntil); err == nil {
			validUntil = &t
		}
	}
	q, err := h.Service.CreateQuotation(c.Context(), quotsvc.CreateQuotationInput{
		ClientName:  body.ClientName,
		ClientEmail: body.ClientEmail,
		Currency:    body.Currency,
		ValidUntil:  validUntil,
		Items:       toItemInputs(body.Items),
	})
	if err != nil {
		if err == quotsvc.ErrInvalidQuotation {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Quotation created successfully", q, nil)
}

// GET /api/v1/quotations/get-quotations?status=
func (h *Handlers) GetQuotations(c *fiber.Ctx) error {
	list, err := h.Service.GetQuotations(c.Context(), c.Query("status"))
	if err != nil {
		if err == quotsvc.ErrInvalidStatus {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Quotations fetched successfully", list, nil)
}

// GET /api/v1/quotations/get-quotation/:quotation_id
func (h *Handlers) GetQuotation(c *fiber.Ctx) error {
	id, err := paramQuotationID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	q, err := h.Service.GetQuotation(c.Context(), id)
	if err != nil {
		if err == quotsvc.ErrQuotationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Quotation fetched successfully", q, nil)
}

// PUT /api/v1/quotations/update-quotation/:quotation_id
func (h *Handlers) UpdateQuotation(c *fiber.Ctx) error {
	id, err := paramQuotationID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	var body struct {
		ClientName  *string    `json:"clientName"`
		ClientEmail *string    `json:"clientEmail"`
		Currency    *string    `json:"currency"`
		Status      *string    `json:"status"`
		ValidUntil  *string    `json:"validUntil"`
		Items       []itemBody `json:"items"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	fields := make(map[string]interface{})
	if body.ClientName != nil {
		fields["clientName"] = *body.ClientName
	}
	if body.ClientEmail != nil {
		fields["clientEmail"] = *body.ClientEmail
	}
	if body.Currency != nil {
		fields["currency"] = *body.Currency
	}
	if body.Status != nil {
		fields["status"] = *body.Status
	}
	if body.ValidUntil != nil {
		fields["validUntil"] = *body.ValidUntil
	}

	q, err := h.Service.UpdateQuotation(c.Context(), id, fields, toItemInputs(body.Items))
	if err != nil {
		switch err {
		case quotsvc.ErrQuotationNotFound:
			return response.Error(c, err.Error(), 404, nil)
		case quotsvc.ErrInvalidStatus:
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Quotation updated successfully", q, nil)
}

// DELETE /api/v1/quotations/delete-quotation/:quotation_id
func (h *Handlers) DeleteQuotation(c *fiber.Ctx) error {
	id, err := paramQuotationID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Service.DeleteQuotation(c.Context(), id); err != nil {
		if err == quotsvc.ErrQuotationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Quotation deleted successfully", nil, nil)
}

// GET /api/v1/quotations/download-pdf/:quotation_id — streams the rendered PDF
func (h *Handlers) DownloadPDF(c *fiber.Ctx) error {
	id, err := paramQuotationID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	pdf, filename, err := h.Service.RenderPDF(c.Context(), id)
	if err != nil {
		if err == quotsvc.ErrQuotationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

func paramQuotationID(c *fiber.Ctx) (uuid.UUID, error) {
	idStr := c.Params("quotation_id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("quotation_id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid quotation_id format")
	}
	return id, nil
}
