package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-paynow/app/factory"
	"github.com/vibast-solutions/ms-go-paynow/app/mapper"
	"github.com/vibast-solutions/ms-go-paynow/app/service"
	"github.com/vibast-solutions/ms-go-paynow/app/types"
)

type PayNowController struct {
	gatewayService *service.GatewayService
	logger         logrus.FieldLogger
}

func NewPayNowController(gatewayService *service.GatewayService) *PayNowController {
	return &PayNowController{
		gatewayService: gatewayService,
		logger:         factory.NewModuleLogger("paynow-controller"),
	}
}

func (c *PayNowController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// HandleCallback serves the single gateway endpoint the processor and the
// shopper's browser both hit: the asynchronous notification as a form POST,
// the return trip as a bodyless GET.
func (c *PayNowController) HandleCallback(ctx echo.Context) error {
	req, err := types.NewCallbackRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	result, err := c.gatewayService.HandleCallback(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrRedirectUnresolvable) {
			c.logger.Error("No redirect URL configured for return trip")
			return ctx.String(http.StatusInternalServerError, "No redirect URL set.")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle callback failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	if result.RedirectURL == "" {
		// Nothing to redirect to; the failure is in the logs and the
		// processor only needs a receipt.
		return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Callback received"})
	}

	return c.writeRedirect(ctx, result.RedirectURL)
}

func (c *PayNowController) GetOrder(ctx echo.Context) error {
	req, err := types.NewGetOrderRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	order, notes, err := c.gatewayService.GetOrder(ctx.Request().Context(), req.GetId())
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		}
		c.logger.WithError(err).Error("Get order failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.OrderEnvelopeResponse{Order: mapper.OrderToResponse(order, notes)})
}

// writeRedirect emits both a Location header and an inline script redirect.
// Some callers strip the header, so the body must carry the same target; both
// are rendered from the one value to keep them from ever disagreeing.
func (c *PayNowController) writeRedirect(ctx echo.Context, target string) error {
	ctx.Response().Header().Set(echo.HeaderLocation, target)
	body := fmt.Sprintf("<html><body><script>window.location=%q;</script></body></html>", target)
	return ctx.HTML(http.StatusFound, body)
}

func (c *PayNowController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
