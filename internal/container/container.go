package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-redis/redis/v8"
	"github.com/joshua-takyi/tower15/internal/assistant"
	"github.com/joshua-takyi/tower15/internal/cache"
	"github.com/joshua-takyi/tower15/internal/config"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/joshua-takyi/tower15/internal/hosthub"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/joshua-takyi/tower15/internal/notify"
	"github.com/joshua-takyi/tower15/internal/payments"
	"github.com/joshua-takyi/tower15/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	RedisClient    *redis.Client

	TokenValidator *helpers.JWKSValidator
	Channel        *hosthub.Switch

	PropertyService  *services.PropertyService
	SettingsService  *services.SettingsService
	BookingService   *services.BookingService
	CheckoutService  *services.CheckoutService
	ConciergeService *services.ConciergeService
	CMSService       *services.CMSService
	ImportService    *services.ImportService
	AdminService     *services.AdminService
	Reconciler       *services.Reconciler
}

type Clients struct {
	Cloudinary *cloudinary.Cloudinary
	Supabase   *supabase.Client
	MongoDB    *mongo.Client
	Redis      *redis.Client
	Assistant  *assistant.Assistant
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, clients Clients) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(clients.Supabase, cfg.SupabaseURL, cfg.SupabaseAnonKey).WithLogger(logger)
	mongoRepo := models.MongodbNewRepo(clients.MongoDB, cfg.MongoDBName)

	var catalog cache.Catalog = cache.Noop{}
	if clients.Redis != nil {
		catalog = cache.NewRedisCatalog(clients.Redis, cfg.CatalogCacheTTL)
	}

	var uploader services.ImageUploader
	if clients.Cloudinary != nil {
		uploader = services.NewCloudinaryUploader(clients.Cloudinary)
	}

	// Env key until the settings row is read; SettingsService.Save swaps it live.
	channel := hosthub.NewSwitch(cfg.Hosthub, logger)

	propertyService := services.NewPropertyService(supa, catalog, channel, uploader, logger)
	settingsService := services.NewSettingsService(supa, channel)
	mailer := notify.NewMailer(cfg.SMTP, logger).WithBrand(settingsService.BrandName)
	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Properties: propertyService,
		Oracle:     channel,
		Payments:   payments.NewSimulatedGateway(cfg.Payments.SimulatedDelay, cfg.Payments.DeclineSuffix),
		Writer:     channel,
		Bookings:   supa,
		SyncTasks:  mongoRepo,
		Notifier:   mailer,
	}, services.CheckoutConfig{StageTimeout: cfg.Hosthub.Timeout}, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Cloudinary:     clients.Cloudinary,
		SupabaseClient: clients.Supabase,
		MongoDBClient:  clients.MongoDB,
		RedisClient:    clients.Redis,
		TokenValidator: helpers.NewJWKSValidator(cfg.SupabaseURL),
		Channel:        channel,

		PropertyService:  propertyService,
		SettingsService:  settingsService,
		BookingService:   services.NewBookingService(supa),
		CheckoutService:  checkoutService,
		ConciergeService: services.NewConciergeService(clients.Assistant, mongoRepo, propertyService, logger),
		CMSService:       services.NewCMSService(clients.Assistant, propertyService, settingsService),
		ImportService:    services.NewImportService(channel, propertyService, logger),
		AdminService:     services.NewAdminService(supa),
		Reconciler:       services.NewReconciler(mongoRepo, channel, cfg.ReconcileInterval, cfg.ReconcileMaxAttempts, logger),
	}
}
