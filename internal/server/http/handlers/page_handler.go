package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/server/http/dto"
)

const driverTemplate = "driver.html"

type pageData struct {
	DriverID string
	NotFound bool
	Snapshot dto.SnapshotResponse
}

// PageHandler serves the server-rendered driver page.
type PageHandler struct {
	facade DriverFacade
}

// NewPageHandler constructs PageHandler.
func NewPageHandler(facade DriverFacade) *PageHandler {
	return &PageHandler{facade: facade}
}

// Show handles GET /drivers/:id.
func (h *PageHandler) Show(c *gin.Context) {
	driverID, err := driverIDParam(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Missing driver id.")
		return
	}
	tab, err := tabQuery(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Unknown tab.")
		return
	}

	snap, err := h.facade.Snapshot(c.Request.Context(), driverID, tab)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.HTML(http.StatusNotFound, driverTemplate, pageData{DriverID: driverID, NotFound: true})
			return
		}
		c.String(statusFor(err), http.StatusText(statusFor(err)))
		return
	}

	c.HTML(http.StatusOK, driverTemplate, pageData{DriverID: driverID, Snapshot: toSnapshotResponse(snap)})
}

// Accept handles the accept form, POST /drivers/:id/orders/:orderID/accept.
func (h *PageHandler) Accept(c *gin.Context) {
	h.act(c, h.facade.Accept, model.TabAccepted)
}

// Reject handles the reject form, POST /drivers/:id/orders/:orderID/reject.
func (h *PageHandler) Reject(c *gin.Context) {
	h.act(c, h.facade.Reject, model.TabPending)
}

func (h *PageHandler) act(c *gin.Context, op orderAction, next model.Tab) {
	driverID, orderID, err := orderParams(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid order.")
		return
	}
	if err := op(c.Request.Context(), driverID, orderID); err != nil {
		_ = c.Error(err)
		c.String(statusFor(err), http.StatusText(statusFor(err)))
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/drivers/%s?tab=%s", url.PathEscape(driverID), next))
}
