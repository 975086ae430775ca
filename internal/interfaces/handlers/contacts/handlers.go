package contacts

import (
	"fmt"

	contsvc "nexora-backend/internal/application/contacts"
	"nexora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *contsvc.Service
}

// POST /api/v1/contacts/submit — public endpoint, no session required
func (h *Handlers) SubmitContact(c *fiber.Ctx) error {
	var body struct {
		Name    string  `json:"name"`
		Email   string  `json:"email"`
		Phone   *string `json:"phone"`
		Subject *string `json:"subject"`
		Message string  `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	contact, err := h.Service.CreateContact(c.Context(), contsvc.CreateContactInput{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		switch err {
		case contsvc.ErrInvalidContact, contsvc.ErrInvalidEmail:
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Message received. We will get back to you shortly.", contact, nil)
}

// GET /api/v1/contacts/get-all-contacts
func (h *Handlers) GetAllContacts(c *fiber.Ctx) error {
	contacts, unread, err := h.Service.GetAllContacts(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Contacts fetched successfully", contacts, fiber.Map{"unreadCount": unread})
}

// PATCH /api/v1/contacts/mark-read/:contact_id
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	return h.setRead(c, true)
}

// PATCH /api/v1/contacts/mark-unread/:contact_id
func (h *Handlers) MarkUnread(c *fiber.Ctx) error {
	return h.setRead(c, false)
}

func (h *Handlers) setRead(c *fiber.Ctx, read bool) error {
	id, err := paramContactID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	contact, err := h.Service.SetRead(c.Context(), id, read)
	if err != nil {
		if err == contsvc.ErrContactNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Contact updated successfully", contact, nil)
}

// DELETE /api/v1/contacts/delete-contact/:contact_id
func (h *Handlers) DeleteContact(c *fiber.Ctx) error {
	id, err := paramContactID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Service.DeleteContact(c.Context(), id); err != nil {
		if err == contsvc.ErrContactNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Contact deleted successfully", nil, nil)
}

func paramContactID(c *fiber.Ctx) (uuid.UUID, error) {
	idStr := c.Params("contact_id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("contact_id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid contact_id format")
	}
	return id, nil
}
