package projects

import (
	"encoding/json"
	"fmt"
	"strconv"

	projsvc "nexora-backend/internal/application/projects"
	"nexora-backend/internal/ledger"
	"nexora-backend/internal/middleware"
	"nexora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *projsvc.Service
}

// POST /api/v1/projects/create-project
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if asString(body["name"]) == "" {
		return response.Error(c, "Project name is required", 400, nil)
	}

	in := projsvc.CreateProjectInput{
		Name:       asString(body["name"]),
		Client:     asString(body["client"]),
		Status:     asString(body["status"]),
		Priority:   asString(body["priority"]),
		Progress:   asInt(body["progress"]),
		Currency:   asString(body["currency"]),
		Budget:     asString(body["budget"]),
		PaidAmount: asString(body["paidAmount"]),
	}
	if s := asString(body["description"]); s != "" {
		in.Description = &s
	}
	if s := asString(body["teamLead"]); s != "" {
		in.TeamLead = &s
	}

	p, err := h.Service.CreateProject(c.Context(), in)
	if err != nil {
		if err == projsvc.ErrNameRequired {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Project created successfully", p, nil)
}

// GET /api/v1/projects/get-all-projects
func (h *Handlers) GetAllProjects(c *fiber.Ctx) error {
	list, err := h.Service.GetAllProjects(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Projects fetched successfully", list, nil)
}

// GET /api/v1/projects/open-project/:project_id
func (h *Handlers) OpenProject(c *fiber.Ctx) error {
	id, err := paramProjectID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	p, err := h.Service.OpenProject(c.Context(), id)
	if err != nil {
		return projectError(c, err)
	}
	return response.Success(c, "Project fetched successfully", p, nil)
}

// PUT /api/v1/projects/update-project/:project_id
func (h *Handlers) UpdateProject(c *fiber.Ctx) error {
	id, err := paramProjectID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(c.Body(), &fields); err != nil || len(fields) == 0 {
		return response.Error(c, "Missing update fields", 400, nil)
	}
	p, err := h.Service.UpdateProject(c.Context(), id, fields)
	if err != nil {
		return projectError(c, err)
	}
	return response.Success(c, "Project updated successfully", p, nil)
}

// DELETE /api/v1/projects/delete-project/:project_id
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	id, err := paramProjectID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Service.DeleteProject(c.Context(), id); err != nil {
		return projectError(c, err)
	}
	return response.Success(c, "Project deleted successfully", nil, nil)
}

// PATCH /api/v1/projects/set-budget/:project_id
func (h *Handlers) SetBudget(c *fiber.Ctx) error {
	id, err := paramProjectID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	p, err := h.Service.SetBudget(c.Context(), id, asString(body["budget"]))
	if err != nil {
		return projectError(c, err)
	}
	return response.Success(c, "Budget updated successfully", p, nil)
}

// POST /api/v1/projects/record-payment/:project_id
func (h *Handlers) RecordPayment(c *fiber.Ctx) error {
	id, err := paramProjectID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	p, recorded, err := h.Service.RecordPayment(c.Context(), id,
		asString(body["amount"]), asString(body["date"]), asString(body["mode"]))
	if err != nil {
		return projectError(c, err)
	}
	if !recorded {
		return response.Success(c, "No payment recorded", p, nil)
	}
	return response.Success(c, "Payment recorded successfully", p, nil)
}

// POST /api/v1/projects/override-payment/:project_id
func (h *Handlers) OverridePayment(c *fiber.Ctx) error {
	id, err := paramProjectID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	var body struct {
		EntryID       string `json:"entry_id"`
		Amount        string `json:"amount"`
		Paid          string `json:"paid"`
		Justification string `json:"justification"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	p, err := h.Service.OverridePayment(c.Context(), id, ledger.Override{
		EntryID:       body.EntryID,
		Amount:        body.Amount,
		Paid:          body.Paid,
		Justification: body.Justification,
	}, actorEmail(c))
	if err != nil {
		switch err {
		case ledger.ErrJustificationRequired:
			return response.Error(c, err.Error(), 400, nil)
		case ledger.ErrEntryNotFound:
			return response.Error(c, err.Error(), 404, nil)
		}
		return projectError(c, err)
	}
	return response.Success(c, "Override applied successfully", p, nil)
}

// GET /api/v1/projects/override-notes/:project_id
func (h *Handlers) GetOverrideNotes(c *fiber.Ctx) error {
	id, err := paramProjectID(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	notes, err := h.Service.GetOverrideNotes(c.Context(), id)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Override notes fetched successfully", notes, nil)
}

// --- helpers ---

func paramProjectID(c *fiber.Ctx) (uuid.UUID, error) {
	idStr := c.Params("project_id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("project_id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid project_id format")
	}
	return id, nil
}

func projectError(c *fiber.Ctx, err error) error {
	if err == projsvc.ErrProjectNotFound {
		return response.Error(c, err.Error(), 404, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

func actorEmail(c *fiber.Ctx) string {
	user := middleware.GetUser(c)
	if m, ok := user.(map[string]interface{}); ok {
		if e, ok := m["email"].(string); ok {
			return e
		}
	}
	return ""
}

func asString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	if v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func asInt(v interface{}) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
