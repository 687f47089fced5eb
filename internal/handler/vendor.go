package handler

import (
	"net/http"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/service"

	"github.com/labstack/echo/v4"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

func (h *VendorHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.vendorService.ListOrders(ctx, c.QueryParam("token"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *VendorHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VendorStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" || req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "required: { order_id, status }")
	}

	result, err := h.vendorService.UpdateStatus(ctx, c.QueryParam("token"), req.OrderID, req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
