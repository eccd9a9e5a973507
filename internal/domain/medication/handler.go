package medication

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/his/his/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medications", h.ListMedications)
	api.POST("/medications", h.CreateMedication)
	api.GET("/medications/export", h.ExportCatalog)
	api.GET("/medications/template", h.CatalogTemplate)
	api.POST("/medications/import", h.ImportCatalog)
	api.GET("/medications/:id", h.GetMedication)
	api.PUT("/medications/:id", h.UpdateMedication)
	api.PATCH("/medications/:id", h.AdjustStock)
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedication(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMedications(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &m); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

type adjustStockRequest struct {
	Change int `json:"change"`
}

func (h *Handler) AdjustStock(c echo.Context) error {
	var req adjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.AdjustStock(c.Request().Context(), c.Param("id"), req.Change)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		var short *InsufficientStockError
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
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ImportCatalog(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	count, err := h.svc.ImportCatalog(c.Request().Context(), src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"imported": count})
}

func (h *Handler) ExportCatalog(c echo.Context) error {
	data, err := h.svc.ExportCatalog(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="medications.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) CatalogTemplate(c echo.Context) error {
	data, err := GenerateCatalogTemplate()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="medications_template.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
