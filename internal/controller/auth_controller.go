package controller

import (
	"time"

	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	cfg     config.AuthConfig
}

func NewAuthController(service service.IAuthService, cfg config.AuthConfig) IAuthController {
	return &authController{service: service, cfg: cfg}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/refresh", c.Refresh)
	h.Post("/logout", c.Logout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return err
	}
	setSessionCookies(ctx, c.cfg, res)
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

// Refresh accepts the refresh token from the body or, failing that, the cookie.
func (c *authController) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshRequest
	_ = ctx.BodyParser(&req)
	if req.RefreshToken == "" {
		req.RefreshToken = ctx.Cookies(serverutils.RefreshTokenCookie)
	}
	if req.RefreshToken == "" {
		return serverutils.Unauthorized("Missing refresh token")
	}

	res, err := c.service.Refresh(ctx.UserContext(), req.RefreshToken, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		clearSessionCookies(ctx, c.cfg)
		return err
	}
	setSessionCookies(ctx, c.cfg, res)
	return ctx.JSON(serverutils.SuccessResponse("Token refreshed", res))
}

// Logout always succeeds for the client; an unknown token is already logged out.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	var req dto.LogoutRequest
	_ = ctx.BodyParser(&req)
	if req.RefreshToken == "" {
		req.RefreshToken = ctx.Cookies(serverutils.RefreshTokenCookie)
	}
	if req.RefreshToken != "" {
		_ = c.service.Logout(ctx.UserContext(), req.RefreshToken)
	}
	clearSessionCookies(ctx, c.cfg)
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out successfully", nil))
}

func setSessionCookies(ctx *fiber.Ctx, cfg config.AuthConfig, res *dto.LoginResponse) {
	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.AccessTokenCookie,
		Value:    res.AccessToken,
		Path:     "/",
		Expires:  res.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.RefreshTokenCookie,
		Value:    res.RefreshToken,
		Path:     "/",
		Expires:  res.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookies(ctx *fiber.Ctx, cfg config.AuthConfig) {
	for _, name := range []string{serverutils.AccessTokenCookie, serverutils.RefreshTokenCookie} {
		ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
