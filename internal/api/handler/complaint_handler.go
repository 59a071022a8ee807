package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/complaintdesk/complaints-api/internal/core/ports"
)

// ComplaintHandler handles HTTP requests for complaint operations.
type ComplaintHandler struct {
	service ports.ComplaintService
}

func NewComplaintHandler(service ports.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// List handles GET /complaints.
//
// @Summary      List complaints
// @Description  Every complaint with its owner's username. Fails as a whole if any owner is missing.
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.ComplaintView
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /complaints [get]
func (h *ComplaintHandler) List(c echo.Context) error {
	views, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Create handles POST /complaints.
//
// @Summary      Create a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createComplaintRequest  true  "New complaint"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /complaints [post]
func (h *ComplaintHandler) Create(c echo.Context) error {
	var req createComplaintRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.service.Create(c.Request().Context(), ports.CreateComplaintInput{
		User:  req.User,
		Title: req.Title,
		Text:  req.Text,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "New complaint created"})
}

// Update handles PATCH /complaints.
//
// @Summary      Update a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateComplaintRequest  true  "Complaint fields"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /complaints [patch]
func (h *ComplaintHandler) Update(c echo.Context) error {
	var req updateComplaintRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	complaint, err := h.service.Update(c.Request().Context(), ports.UpdateComplaintInput{
		ID:        req.ID,
		User:      req.User,
		Title:     req.Title,
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("'%s' updated", complaint.Title)})
}

// Delete handles DELETE /complaints.
//
// @Summary      Delete a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteRequest  true  "Complaint id"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /complaints [delete]
func (h *ComplaintHandler) Delete(c echo.Context) error {
	var req deleteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	complaint, err := h.service.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Complaint '%s' with ID %s deleted", complaint.Title, complaint.ID),
	})
}
