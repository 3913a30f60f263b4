package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type orderAction func(ctx context.Context, driverID string, orderID int64) error

// OrderHandler serves the JSON order API.
type OrderHandler struct {
	facade DriverFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade DriverFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/drivers/:id/orders.
func (h *OrderHandler) List(c *gin.Context) {
	driverID, err := driverIDParam(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	tab, err := tabQuery(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	snap, err := h.facade.Snapshot(c.Request.Context(), driverID, tab)
	if err != nil {
		_ = c.Error(err)
		c.Status(statusFor(err))
		return
	}
	c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

// Accept handles POST /api/drivers/:id/orders/:orderID/accept.
func (h *OrderHandler) Accept(c *gin.Context) {
	h.act(c, h.facade.Accept)
}

// Reject handles POST /api/drivers/:id/orders/:orderID/reject.
func (h *OrderHandler) Reject(c *gin.Context) {
	h.act(c, h.facade.Reject)
}

func (h *OrderHandler) act(c *gin.Context, op orderAction) {
	driverID, orderID, err := orderParams(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := op(c.Request.Context(), driverID, orderID); err != nil {
		_ = c.Error(err)
		c.Status(statusFor(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func orderParams(c *gin.Context) (string, int64, error) {
	driverID, err := driverIDParam(c)
	if err != nil {
		return "", 0, err
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return "", 0, err
	}
	return driverID, orderID, nil
}
