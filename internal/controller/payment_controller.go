package controller

import (
	"encoding/json"
	"fmt"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	ValidateCoupon(ctx *fiber.Ctx) error
	VerifyRazorpay(ctx *fiber.Ctx) error
	VerifyStripe(ctx *fiber.Ctx) error
	StripeReturn(ctx *fiber.Ctx) error
	MidtransNotification(ctx *fiber.Ctx) error
}

type paymentController struct {
	service   service.IPaymentService
	clientURL string
	auth      fiber.Handler
	logger    logger.ILogger
}

func NewPaymentController(service service.IPaymentService, clientURL string, auth fiber.Handler, log logger.ILogger) IPaymentController {
	return &paymentController{service: service, clientURL: clientURL, auth: auth, logger: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")

	// Provider callbacks
	h.Post("/midtrans/notification", c.MidtransNotification)
	h.Get("/stripe/return", c.StripeReturn)

	// Protected Routes
	h.Post("/coupon/validate", c.auth, c.ValidateCoupon)
	h.Post("/razorpay/verify", c.auth, c.VerifyRazorpay)
	h.Post("/stripe/verify", c.auth, c.VerifyStripe)
}

func (c *paymentController) ValidateCoupon(ctx *fiber.Ctx) error {
	var req dto.ValidateCouponRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.ValidateCoupon(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Coupon is valid", res))
}

func (c *paymentController) VerifyRazorpay(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.RazorpayVerifyRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.VerifyRazorpay(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment verified", res))
}

func (c *paymentController) VerifyStripe(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.StripeVerifyRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.VerifyStripe(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment verified", res))
}

const stripeReturnPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment complete</title></head>
<body>
<p>Payment finished. You can close this window.</p>
<script>
(function () {
	var msg = { type: "stripe-session", sessionId: %s };
	if (window.opener) {
		window.opener.postMessage(msg, %s);
	}
	window.close();
})();
</script>
</body>
</html>`

// StripeReturn is the landing page of the Stripe popup. It hands the session
// id to the opener window, scoped to the frontend origin, and closes itself.
func (c *paymentController) StripeReturn(ctx *fiber.Ctx) error {
	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		return serverutils.BadRequest("session_id is required")
	}
	sid, _ := json.Marshal(sessionID)
	origin, _ := json.Marshal(c.clientURL)

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.SendString(fmt.Sprintf(stripeReturnPage, sid, origin))
}

// MidtransNotification answers 200 for anything it has processed so Midtrans
// stops retrying. Signature failures are still rejected.
func (c *paymentController) MidtransNotification(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid notification payload")
	}
	if err := c.service.HandleMidtransNotification(ctx.UserContext(), &req); err != nil {
		c.logger.Warn("PAYMENT", "Midtrans notification rejected", map[string]interface{}{"order_id": req.OrderId, "error": err.Error()})
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
}
