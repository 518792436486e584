package api

import (
	"net/http"

	"github.com/anomi-labs/clob/core/engine"
	"github.com/anomi-labs/clob/core/registry"
	"github.com/labstack/echo/v4"
)

// handlers binds the five RPC endpoints onto an *engine.Engine. Every
// recoverable failure degrades to a success:false (or null status) body;
// only malformed JSON earns a 4xx.
type handlers struct {
	engine *engine.Engine
}

func newHandlers(e *engine.Engine) *handlers {
	return &handlers{engine: e}
}

func (h *handlers) deposit(c echo.Context) error {
	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, successResponse{Success: false})
	}
	addr, err := decodeAddr(req.Addr)
	if err != nil {
		return c.JSON(http.StatusOK, successResponse{Success: false})
	}

	h.engine.Deposit(addr, req.Amounts.A, req.Amounts.B)
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *handlers) withdraw(c echo.Context) error {
	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, successResponse{Success: false})
	}
	addr, err := decodeAddr(req.Addr)
	if err != nil {
		return c.JSON(http.StatusOK, successResponse{Success: false})
	}

	ok := h.engine.Withdraw(addr, req.Amounts.A, req.Amounts.B)
	return c.JSON(http.StatusOK, successResponse{Success: ok})
}

func (h *handlers) placeOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, placeOrderResponse{Success: false})
	}
	addr, err := decodeAddr(req.Addr)
	if err != nil {
		return c.JSON(http.StatusOK, placeOrderResponse{Success: false})
	}

	status, ok := h.engine.PlaceOrder(addr, req.IsBuy, req.LimitPx, req.Sz)
	if !ok {
		return c.JSON(http.StatusOK, placeOrderResponse{Success: false})
	}
	return c.JSON(http.StatusOK, placeOrderResponse{Success: true, Status: toFillStatusDTO(status)})
}

func (h *handlers) cancel(c echo.Context) error {
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, successResponse{Success: false})
	}

	ok := h.engine.Cancel(req.OID)
	return c.JSON(http.StatusOK, successResponse{Success: ok})
}

func (h *handlers) status(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: nil})
	}

	status, ok := h.engine.Status(req.OID)
	if !ok {
		return c.JSON(http.StatusOK, statusResponse{Status: nil})
	}
	return c.JSON(http.StatusOK, statusResponse{Status: toFillStatusDTO(status)})
}

func toFillStatusDTO(s *registry.FillStatus) *fillStatusDTO {
	fills := make([]fillDTO, len(s.Fills))
	for i, f := range s.Fills {
		fills[i] = fillDTO{MakerOID: f.MakerOID, TakerOID: f.TakerOID, Sz: f.Sz}
	}
	return &fillStatusDTO{
		OID:      s.OID,
		Sz:       s.Sz,
		Addr:     encodeAddr(s.Addr),
		FilledSz: s.FilledSz,
		Fills:    fills,
	}
}
