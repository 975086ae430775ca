package services

import (
	"encoding/json"
	"fmt"

	svcsvc "nexora-backend/internal/application/services"
	"nexora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *svcsvc.Service
}

// POST /api/v1/services/create-service
func (h *Handlers) CreateService(c *fiber.Ctx) error {
	var body struct {
		Title         string  `json:"title"`
		Description   *string `json:"description"`
		Category      string  `json:"category"`
		StartingPrice string  `json:"startingPrice"`
		Active        *bool   `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	svc, err := h.Service.CreateService(c.Context(), svcsvc.CreateServiceInput{
		Title:         body.Title,
		Description:   body.Description,
		Category:      body.Category,
		StartingPrice: body.StartingPrice,
		Active:        body.Active,
	})
	if err != nil {
		if err == svcsvc.ErrTitleRequired {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Service created successfully", svc, nil)
}

// GET /api/v1/services/get-services?active=true — public listing when active=true
func (h *Handlers) GetServices(c *fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"
	list, err := h.Service.GetServices(c.Context(), activeOnly)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Services fetched successfully", list, nil)
}

// PUT /api/v1/services/update-service/:service_id
func (h *Handlers) UpdateService(c *fiber.Ctx) error {
	id, err := paramServiceID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(c.Body(), &fields); err != nil || len(fields) == 0 {
		return response.Error(c, "Missing update fields", 400, nil)
	}
	svc, err := h.Service.UpdateService(c.Context(), id, fields)
	if err != nil {
		if err == svcsvc.ErrServiceNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Service updated successfully", svc, nil)
}

// DELETE /api/v1/services/delete-service/:service_id
func (h *Handlers) DeleteService(c *fiber.Ctx) error {
	id, err := paramServiceID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Service.DeleteService(c.Context(), id); err != nil {
		if err == svcsvc.ErrServiceNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Service deleted successfully", nil, nil)
}

func paramServiceID(c *fiber.Ctx) (uuid.UUID, error) {
	idStr := c.Params("service_id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("service_id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid service_id format")
	}
	return id, nil
}
