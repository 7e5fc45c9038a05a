package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tripdesk/internal/domain/identity"
	tripUC "tripdesk/internal/usecase/trip"
)

type TripHandler struct {
	uc  *tripUC.Usecase
	ids identity.Repository
}

func NewTripHandler(uc *tripUC.Usecase, ids identity.Repository) *TripHandler {
	return &TripHandler{uc: uc, ids: ids}
}

type createTripReq struct {
	Type              string  `json:"type"                validate:"required,oneof=ticket planned urgent"`
	DepartmentID      string  `json:"department_id"       validate:"omitempty,hex32"`
	ProjectID         string  `json:"project_id"          validate:"omitempty,hex32"`
	Cost              float64 `json:"cost"                validate:"required,gt=0,dec2"`
	DistanceKM        float64 `json:"distance_km"         validate:"omitempty,gt=0"`
	HasPreapprovalDoc bool    `json:"has_preapproval_doc"`
}

func (h *TripHandler) CreateTrip(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	var req createTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), actor, tripUC.CreateInput{
		RequesterID:       actor.ActorID,
		Type:              req.Type,
		DepartmentID:      req.DepartmentID,
		ProjectID:         req.ProjectID,
		Cost:              req.Cost,
		DistanceKM:        req.DistanceKM,
		HasPreapprovalDoc: req.HasPreapprovalDoc,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TripHandler) GetTrip(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), actor, c.Param("trip_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TripHandler) ListTrips(c echo.Context) error {
	actor, err := loadActor(c, h.ids)
	if err != nil {
		return err
	}
	dtos, err := h.uc.List(c.Request().Context(), actor, tripUC.ListInput{
		Status: c.QueryParam("status"),
		Type:   c.QueryParam("type"),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"trips": dtos, "count": len(dtos)})
}
