package users

import (
	"encoding/json"
	"strings"

	"nexora-backend/internal/application/emails"
	usersvc "nexora-backend/internal/application/user"
	"nexora-backend/internal/middleware"
	"nexora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *usersvc.Service
	Mailer  emails.Sender
}

// POST /api/v1/users/create-user
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var in usersvc.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	u, err := h.Service.CreateUser(c.Context(), in)
	if err != nil {
		statusMap := map[string]int{
			"Username is required and must be a non-empty string":  400,
			"Invalid email format":                                 400,
			"Invalid password format":                              400,
			"Full name is required and must be a non-empty string": 400,
			"Email already registered":                             409,
			"Username already registered":                          409,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		if strings.Contains(err.Error(), "Full name contains invalid characters") {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}

	if h.Mailer != nil {
		firstName := u.Fullname
		if i := strings.IndexByte(firstName, ' '); i > 0 {
			firstName = firstName[:i]
		}
		if err := h.Mailer.SendWelcome(c.Context(), u.Email, firstName); err != nil {
			log.Warn().Err(err).Str("user_id", u.UserID.String()).Msg("welcome email failed")
		}
	}
	return response.SuccessCreated(c, "User created successfully", u, nil)
}

// GET /api/v1/users/get-users
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	users, err := h.Service.ListUsers(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Users fetched successfully", users, nil)
}

// GET /api/v1/users/view-user/:user_id
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	u, err := h.Service.ViewUser(c.Context(), userID)
	if err != nil {
		switch err.Error() {
		case "Missing user ID":
			return response.Error(c, err.Error(), 400, nil)
		case "User not found":
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User fetched successfully", u, nil)
}

// PUT /api/v1/users/update-user/:user_id
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	var fields map[string]interface{}
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return response.Error(c, "Missing update fields", 400, nil)
	}
	u, err := h.Service.UpdateUser(c.Context(), userID, fields)
	if err != nil {
		statusMap := map[string]int{
			"Missing user ID":                 400,
			"Missing update fields":           400,
			"No valid update fields provided": 400,
			"Invalid email format":            400,
			"Invalid password format":         400,
			"Email already registered":        409,
			"Username already registered":     409,
			"User not found":                  404,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		if strings.Contains(err.Error(), "Full name") || strings.Contains(err.Error(), "Invalid user ID") {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User updated successfully", u, nil)
}

// PATCH /api/v1/users/update-role/:user_id
func (h *Handlers) UpdateUserRole(c *fiber.Ctx) error {
	targetID := c.Params("user_id")
	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil || body.Role == "" {
		return response.Error(c, "role is required", 400, nil)
	}
	actorID, actorRole := actor(c)

	u, err := h.Service.UpdateUserRole(c.Context(), usersvc.UpdateUserRoleInput{
		ActorUserID:  actorID,
		ActorRole:    actorRole,
		TargetUserID: targetID,
		TargetRole:   body.Role,
	})
	if err != nil {
		statusMap := map[string]int{
			"Invalid role":          400,
			"Target user not found": 404,
			"User not found":        404,
			"Only superadmins can assign admin or superadmin roles": 403,
			"Users cannot modify their own role":                    403,
			"There must be at least one superadmin":                 400,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User role updated successfully", u, nil)
}

// DELETE /api/v1/users/remove-user/:user_id
func (h *Handlers) RemoveUser(c *fiber.Ctx) error {
	targetID := c.Params("user_id")
	actorID, _ := actor(c)

	if err := h.Service.RemoveUser(c.Context(), actorID, targetID); err != nil {
		statusMap := map[string]int{
			"Users cannot remove themselves":        403,
			"User not found":                        404,
			"There must be at least one superadmin": 400,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User removed successfully", nil, nil)
}

func actor(c *fiber.Ctx) (userID, role string) {
	user := middleware.GetUser(c)
	if m, ok := user.(map[string]interface{}); ok {
		userID, _ = m["user_id"].(string)
		role, _ = m["role"].(string)
	}
	return
}
