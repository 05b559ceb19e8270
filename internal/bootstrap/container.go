package bootstrap

import (
	"context"
	"log"
	"time"

	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/controller"
	"ticket-marketplace-be/internal/handler"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/mailer"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/realtime"
	"ticket-marketplace-be/internal/repository"
	"ticket-marketplace-be/internal/repository/implementation"
	"ticket-marketplace-be/internal/repository/memory"
	"ticket-marketplace-be/internal/repository/unitofwork"
	"ticket-marketplace-be/internal/service"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/events"
	"ticket-marketplace-be/pkg/localbus"
	pktNats "ticket-marketplace-be/pkg/nats"
	"ticket-marketplace-be/pkg/payment"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const oauthStateTTL = 10 * time.Minute

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	OAuthController   controller.IOAuthController
	EventController   controller.IEventController
	UserController    controller.IUserController
	PaymentController controller.IPaymentController
	AdminController   controller.IAdminController

	// Streams & Notification
	NotificationHandler *handler.NotificationHandler
	Hub                 *realtime.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	return NewContainerFrom(unitofwork.NewRepositoryFactory(db), implementation.NewNotificationRepository(db), cfg)
}

// NewContainerFrom wires the application over any repository backend.
func NewContainerFrom(uowFactory unitofwork.RepositoryFactory, notifRepo repository.NotificationRepository, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	streamLogger := logger.NewIsolatedLogger(cfg.App.StreamLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus: NATS when reachable, otherwise in-process
	var (
		publisher  events.Publisher
		subscriber events.Subscriber
	)
	natsPub, natsSub, err := connectNats(cfg.App.NatsURL)
	if err == nil {
		publisher, subscriber = natsPub, natsSub
		c.closers = append(c.closers, natsPub.Close, natsSub.Close)
		log.Printf("[INFO] Event bus: NATS (%s)", cfg.App.NatsURL)
	} else {
		log.Printf("[WARN] NATS unavailable, using in-process bus: %v", err)
		bus := localbus.New(watermill.NewStdLogger(false, false))
		publisher, subscriber = bus, bus
		c.closers = append(c.closers, func() { _ = bus.Close() })
	}
	eventPublisher := adminEvents.NewBusPublisher(publisher, sysLogger)

	// 3. Payment gateways, only those with credentials
	var gateways []payment.Gateway
	if g := payment.NewRazorpay(cfg.Keys.RazorpayKeyID, cfg.Keys.RazorpayKeySecret); g != nil {
		gateways = append(gateways, g)
	}
	stripeReturn := cfg.App.BaseURL + "/api/payment/stripe/return"
	if g := payment.NewStripe(cfg.Keys.StripeSecretKey, stripeReturn, cfg.App.ClientURL+"/checkout/cancelled"); g != nil {
		gateways = append(gateways, g)
	}
	if g := payment.NewMidtrans(cfg.Keys.MidtransServerKey, cfg.Keys.MidtransProduction, cfg.App.ClientURL+"/bookings"); g != nil {
		gateways = append(gateways, g)
	}
	registry := payment.NewRegistry(gateways...)

	// 4. Redis fan-out for multi-instance streams
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] Redis unreachable, streams stay local to this instance: %v", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
		cancel()
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := realtime.NewHub(rdb, streamLogger)
	go hub.Run(hubCtx)
	c.closers = append(c.closers, stopHub)
	c.Hub = hub

	// 5. Services
	authService := service.NewAuthService(uowFactory, eventPublisher, sysLogger, cfg.Auth)
	oauthService := service.NewOAuthService(uowFactory, memory.NewOAuthStateRepository(oauthStateTTL), eventPublisher, sysLogger, cfg)
	eventService := service.NewEventService(uowFactory, sysLogger)
	locationService := service.NewLocationService(cfg.Keys.Geoapify, "", sysLogger)
	bookingService := service.NewBookingService(uowFactory, registry, eventPublisher, emailService, sysLogger, cfg.App.Currency)
	paymentService := service.NewPaymentService(uowFactory, registry, eventPublisher, emailService, sysLogger, cfg.App.Currency)
	userService := service.NewUserService(uowFactory, eventPublisher, sysLogger, cfg.App.Currency)
	adminService := service.NewAdminService(uowFactory, sysLogger, eventPublisher, cfg.App.Currency)

	notifService := service.NewNotificationService(notifRepo, hub, emailService, streamLogger)
	if err := notifService.Start(subscriber); err != nil {
		log.Printf("[WARN] Notification pipeline not started: %v", err)
	}

	// 6. Controllers
	auth := serverutils.JwtMiddleware(cfg.Auth.JWTSecret)

	c.AuthController = controller.NewAuthController(authService, cfg.Auth)
	c.OAuthController = controller.NewOAuthController(oauthService, cfg, sysLogger)
	c.EventController = controller.NewEventController(eventService, locationService, bookingService, auth)
	c.UserController = controller.NewUserController(userService, bookingService, auth)
	c.PaymentController = controller.NewPaymentController(paymentService, cfg.App.ClientURL, auth, sysLogger)
	c.AdminController = controller.NewAdminController(adminService, authService, cfg.Auth, auth)
	c.NotificationHandler = handler.NewNotificationHandler(notifService, hub, auth, cfg.Stream.KeepAlive, cfg.Stream.ClientBuffer, streamLogger)

	return c
}

func connectNats(url string) (*pktNats.Publisher, *pktNats.Subscriber, error) {
	pub, err := pktNats.NewPublisher(url)
	if err != nil {
		return nil, nil, err
	}
	sub, err := pktNats.NewSubscriber(url)
	if err != nil {
		pub.Close()
		return nil, nil, err
	}
	return pub, sub, nil
}

// Close stops background workers in reverse start order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
