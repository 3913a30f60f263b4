package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/server/http/dto"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

var errMissingDriverID = errors.New("missing driver id")

func driverIDParam(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", errMissingDriverID
	}
	return id, nil
}

func orderIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainErrors.ErrInvalidOrderID
	}
	return id, nil
}

// tabQuery returns nil when no tab was requested.
func tabQuery(c *gin.Context) (*model.Tab, error) {
	raw, ok := c.GetQuery("tab")
	if !ok {
		return nil, nil
	}
	tab, ok := model.ParseTab(raw)
	if !ok {
		return nil, domainErrors.ErrInvalidTab
	}
	return &tab, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidOrderID),
		errors.Is(err, domainErrors.ErrInvalidTab),
		errors.Is(err, errMissingDriverID):
		return http.StatusBadRequest
	case domainErrors.IsStoreError(err):
		return http.StatusBadGateway
	case errors.Is(err, domainErrors.ErrSessionsClosed), errors.Is(err, domainErrors.ErrViewClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toSnapshotResponse(s usecase.Snapshot) dto.SnapshotResponse {
	resp := dto.SnapshotResponse{
		ActiveTab: string(s.ActiveTab),
		Loading:   s.Loading,
		Pending:   toOrderResponses(s.Pending),
		Accepted:  toOrderResponses(s.Accepted),
		Version:   s.Version,
	}
	if s.Driver != nil {
		resp.Driver = &dto.DriverResponse{
			ID:          s.Driver.ID,
			Name:        s.Driver.Name,
			ContactInfo: s.Driver.ContactInfo,
			Status:      s.Driver.Status,
		}
	}
	if s.Err != nil {
		resp.Error = "Order list may be out of date: the order store is unreachable."
	}
	return resp
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.OrderResponse{
			ID:               o.ID,
			Item:             o.Item.Label(),
			Restaurant:       o.Restaurant.Label(),
			Quantity:         o.Quantity,
			Unit:             o.Unit,
			Status:           o.Status,
			Notes:            o.NotesLabel(),
			Code:             o.Code,
			AcceptedDriverID: o.AcceptedDriverID,
			CreatedAt:        o.CreatedAt,
		})
	}
	return out
}
