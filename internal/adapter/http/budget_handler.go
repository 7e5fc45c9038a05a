package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tripdesk/internal/domain/identity"
	budgetUC "tripdesk/internal/usecase/budget"
)

type BudgetHandler struct {
	uc  *budgetUC.Usecase
	ids identity.Repository
}

func NewBudgetHandler(uc *budgetUC.Usecase, ids identity.Repository) *BudgetHandler {
	return &BudgetHandler{uc: uc, ids: ids}
}

type adjustReq struct {
	Amount      float64 `json:"amount"      validate:"required,dec2"`
	Description string  `json:"description" validate:"required"`
}

func (h *BudgetHandler) Adjust(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	var req adjustReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Adjust(c.Request().Context(), actor, budgetUC.AdjustInput{
		HolderID:    c.Param("holder_id"),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *BudgetHandler) GetHolder(c echo.Context) error {
	if _, err := loadActor(c, h.ids); err != nil {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), c.Param("holder_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BudgetHandler) History(c echo.Context) error {
	if _, err := loadActor(c, h.ids); err != nil {
		return err
	}
	txs, err := h.uc.History(c.Request().Context(), c.Param("holder_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
}

type bootstrapReq struct {
	HolderID       string  `json:"holder_id"       validate:"omitempty,hex32"`
	Kind           string  `json:"kind"            validate:"required,oneof=department project"`
	Name           string  `json:"name"            validate:"required"`
	OriginalBudget float64 `json:"original_budget" validate:"required,gt=0,dec2"`
}

func (h *BudgetHandler) Bootstrap(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	var req bootstrapReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Bootstrap(c.Request().Context(), actor, budgetUC.BootstrapInput{
		HolderID:       req.HolderID,
		Kind:           req.Kind,
		Name:           req.Name,
		OriginalBudget: req.OriginalBudget,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}
