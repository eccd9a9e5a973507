package prescription

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/his/his/internal/domain/medication"
	"github.com/his/his/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/prescriptions", h.ListPrescriptions)
	api.POST("/prescriptions", h.CreatePrescription)
	api.GET("/prescriptions/:id", h.GetPrescription)
	api.POST("/prescriptions/:id/dispense", h.Dispense)
}

func (h *Handler) CreatePrescription(c echo.Context) error {
	var p Prescription
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateID):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPrescription(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Dispense(c echo.Context) error {
	res, err := h.svc.Dispense(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
		}
		var short *medication.InsufficientStockError
		if errors.As(err, &short) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"error":        "insufficient stock",
				"medicationId": short.MedicationID,
				"required":     short.Required,
				"available":    short.Available,
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
