package controller

import (
	"net/url"

	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	authCfg   config.AuthConfig
	clientURL string
	logger    logger.ILogger
}

func NewOAuthController(service service.IOAuthService, cfg *config.Config, log logger.ILogger) IOAuthController {
	return &oauthController{service: service, authCfg: cfg.Auth, clientURL: cfg.App.ClientURL, logger: log}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	// e.g., /auth/google
	h := r.Group("/auth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	loginURL, err := c.service.GetLoginURL(ctx.Params("provider"), ctx.Query("return_to"))
	if err != nil {
		return err
	}
	return ctx.Redirect(loginURL)
}

// Callback finishes the login, sets the session cookies and sends the
// browser back to the frontend.
func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	if code == "" {
		return c.redirectError(ctx, "missing_code")
	}

	res, returnTo, err := c.service.HandleCallback(ctx.UserContext(), provider, code, ctx.Query("state"), ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		c.logger.Warn("OAUTH", "Callback failed", map[string]interface{}{"provider": provider, "error": err.Error()})
		return c.redirectError(ctx, "login_failed")
	}
	setSessionCookies(ctx, c.authCfg, res)

	q := url.Values{}
	q.Set("access_token", res.AccessToken)
	if returnTo != "" {
		q.Set("return_to", returnTo)
	}
	return ctx.Redirect(c.clientURL + "/auth/callback?" + q.Encode())
}

func (c *oauthController) redirectError(ctx *fiber.Ctx, reason string) error {
	return ctx.Redirect(c.clientURL + "/login?error=" + url.QueryEscape(reason))
}
