package applications

import (
	"fmt"

	appsvc "nexora-backend/internal/application/applications"
	"nexora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *appsvc.Service
}

// POST /api/v1/applications/submit — public endpoint, no session required
func (h *Handlers) SubmitApplication(c *fiber.Ctx) error {
	var body struct {
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		Phone       *string `json:"phone"`
		Position    string  `json:"position"`
		Kind        string  `json:"kind"`
		ResumeURL   *string `json:"resumeUrl"`
		CoverLetter *string `json:"coverLetter"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	a, err := h.Service.CreateApplication(c.Context(), appsvc.CreateApplicationInput{
		Name:        body.Name,
		Email:       body.Email,
		Phone:       body.Phone,
		Position:    body.Position,
		Kind:        body.Kind,
		ResumeURL:   body.ResumeURL,
		CoverLetter: body.CoverLetter,
	})
	if err != nil {
		switch err {
		case appsvc.ErrInvalidApplication, appsvc.ErrInvalidEmail:
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Application submitted successfully", a, nil)
}

// GET /api/v1/applications/get-applications?position=&status=&kind=
func (h *Handlers) GetApplications(c *fiber.Ctx) error {
	apps, err := h.Service.GetApplications(c.Context(), appsvc.ListFilter{
		Position: c.Query("position"),
		Status:   c.Query("status"),
		Kind:     c.Query("kind"),
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Applications fetched successfully", apps, nil)
}

// PATCH /api/v1/applications/update-status/:application_id
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramApplicationID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "status is required", 400, nil)
	}
	a, err := h.Service.UpdateStatus(c.Context(), id, body.Status)
	if err != nil {
		switch err {
		case appsvc.ErrInvalidStatus:
			return response.Error(c, err.Error(), 400, nil)
		case appsvc.ErrApplicationNotFound:
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Application status updated successfully", a, nil)
}

// DELETE /api/v1/applications/delete-application/:application_id
func (h *Handlers) DeleteApplication(c *fiber.Ctx) error {
	id, err := paramApplicationID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Service.DeleteApplication(c.Context(), id); err != nil {
		if err == appsvc.ErrApplicationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Application deleted successfully", nil, nil)
}

func paramApplicationID(c *fiber.Ctx) (uuid.UUID, error) {
	idStr := c.Params("application_id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("application_id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid application_id format")
	}
	return id, nil
}
