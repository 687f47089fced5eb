package handler

import (
	"net/http"

	"marketplace-api/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.adminService.ListOrders(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *AdminHandler) FulfillOrder(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.adminService.Fulfill(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) RefundOrder(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.adminService.Refund(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
