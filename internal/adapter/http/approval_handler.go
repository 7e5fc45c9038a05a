package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tripdesk/internal/domain/identity"
	approvalUC "tripdesk/internal/usecase/approval"
)

type ApprovalHandler struct {
	uc  *approvalUC.Usecase
	ids identity.Repository
}

func NewApprovalHandler(uc *approvalUC.Usecase, ids identity.Repository) *ApprovalHandler {
	return &ApprovalHandler{uc: uc, ids: ids}
}

type transitionReq struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason" validate:"required_if=Action reject"`
}

func (h *ApprovalHandler) Transition(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Transition(c.Request().Context(), actor, approvalUC.TransitionInput{
		TripID: c.Param("trip_id"),
		Action: approvalUC.Action(req.Action),
		Reason: req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type bulkReq struct {
	TripIDs []string `json:"trip_ids" validate:"required,min=1,dive,hex32"`
	Action  string   `json:"action"   validate:"required,oneof=approve reject"`
	Reason  string   `json:"reason"   validate:"required_if=Action reject"`
}

func (h *ApprovalHandler) BulkTransition(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	var req bulkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Bulk(c.Request().Context(), actor, approvalUC.BatchInput{
		TripIDs: req.TripIDs,
		Action:  approvalUC.Action(req.Action),
		Reason:  req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ApprovalHandler) Pay(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	dto, err := h.uc.Pay(c.Request().Context(), actor, c.Param("trip_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type cancelReq struct {
	Reason string `json:"reason"`
}

func (h *ApprovalHandler) Cancel(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Cancel(c.Request().Context(), actor, c.Param("trip_id"), req.Reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) Repair(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	dto, err := h.uc.Repair(c.Request().Context(), actor, c.Param("trip_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
