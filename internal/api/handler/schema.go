package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// messageResponse is the envelope for confirmations and errors.
type messageResponse struct {
	Message string `json:"message"`
}

// deleteRequest carries the id of the record to remove.
type deleteRequest struct {
	ID string `json:"id"`
}

// --- Users ---

type createUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password" validate:"max=72"`
	Roles    []string `json:"roles"`
}

type updateUserRequest struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Active   *bool    `json:"active"`
	Password string   `json:"password" validate:"max=72"`
}

// --- Complaints ---

type createComplaintRequest struct {
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type updateComplaintRequest struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Completed *bool  `json:"completed"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password" validate:"max=72"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator, if any.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("Invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
