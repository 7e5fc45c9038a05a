package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	budgetDomain "tripdesk/internal/domain/budget"
	"tripdesk/internal/domain/identity"
	tripDomain "tripdesk/internal/domain/trip"
	workflowDomain "tripdesk/internal/domain/workflow"
	approvalUC "tripdesk/internal/usecase/approval"
	budgetUC "tripdesk/internal/usecase/budget"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// loadActor resolves the acting identity from the auth collaborator's
// headers: Ax-Actor-Id names the actor, Ax-Active-Role optionally switches
// the effective role for this call.
func loadActor(c echo.Context, ids identity.Repository) (*identity.Actor, error) {
	actorID := strings.TrimSpace(c.Request().Header.Get("Ax-Actor-Id"))
	if actorID == "" || !reHex32.MatchString(actorID) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid Ax-Actor-Id")
	}
	actor, err := ids.GetActor(c.Request().Context(), actorID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown actor")
		}
		return nil, err
	}
	if raw := strings.TrimSpace(c.Request().Header.Get("Ax-Active-Role")); raw != "" {
		role := identity.Role(raw)
		if !role.IsValid() {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid Ax-Active-Role")
		}
		actor.ActiveRole = role
	}
	return actor, nil
}

// writeDomainError maps domain errors to HTTP responses. Budget shortfalls
// and required roles reach the client verbatim; corruption stays generic.
func writeDomainError(c echo.Context, err error) error {
	var (
		permErr    *identity.PermissionError
		exceeded   *budgetDomain.ExceededError
		configErr  *workflowDomain.ConfigError
		corruption *workflowDomain.CorruptionError
	)
	switch {
	case errors.As(err, &permErr):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: permErr.Error()})
	case errors.As(err, &exceeded):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: exceeded.Error()})
	case errors.As(err, &configErr):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: configErr.Error()})
	case errors.As(err, &corruption):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: corruption.Error()})
	case errors.Is(err, tripDomain.ErrNotFound),
		errors.Is(err, budgetDomain.ErrHolderNotFound),
		errors.Is(err, identity.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, approvalUC.ErrNotApproved):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, approvalUC.ErrUnknownAction),
		errors.Is(err, approvalUC.ErrReasonNeeded),
		errors.Is(err, approvalUC.ErrEmptyBatch),
		errors.Is(err, approvalUC.ErrNotCorrupted),
		errors.Is(err, budgetUC.ErrZeroAdjustment):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
