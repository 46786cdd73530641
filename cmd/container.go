// container.go
package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/ai/llm"
	aiopenai "github.com/Abraxas-365/recruitdesk/pkg/ai/providers/openai"
	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/database"
	"github.com/Abraxas-365/recruitdesk/pkg/fsx"
	"github.com/Abraxas-365/recruitdesk/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/recruitdesk/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access/accessapi"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation/invitationapi"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation/invitationinfra"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation/invitationsrv"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/document"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/resumeai"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/resumeapi"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/resumeinfra"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/resumesrv"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teamapi"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teaminfra"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teamsrv"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Domain Services
	TokenService      auth.TokenService
	ResumeService     *resumesrv.ResumeService
	TeamService       *teamsrv.TeamService
	InvitationService *invitationsrv.InvitationService

	// API Handlers
	AccessHandlers     *accessapi.AccessHandlers
	ResumeHandlers     *resumeapi.ResumeHandlers
	TeamHandlers       *teamapi.TeamHandlers
	InvitationHandlers *invitationapi.InvitationHandlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware

	// Background Services
	CleanupService *resumeinfra.CleanupService
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure(ctx)
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure(ctx context.Context) {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	db, err := database.Connect(ctx, c.Config.Database)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	c.DB = db
	logx.Info("✅ Database connected")

	if c.Config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logx.Fatalf("Failed to run migrations: %v", err)
		}
		logx.Info("✅ Migrations applied")
	}

	// 2. Redis Connection (solo si la caché de CVs usa Redis)
	if c.Config.Resume.CacheMode == config.CacheModeRedis {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(ctx).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v (set RESUME_CACHE=memory to run without it)", err)
		}
		logx.Info("✅ Redis connected")
	}

	// 3. File Storage Configuration (Local or S3)
	c.initFileStorage(ctx)

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage(ctx context.Context) {
	storage := c.Config.Storage

	switch storage.Mode {
	case config.StorageModeS3:
		cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(storage.S3Region))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(cfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, storage.S3Bucket, storage.S3Prefix)
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)", storage.S3Bucket, storage.S3Region)

	case config.StorageModeLocal:
		localFS, err := fsxlocal.NewLocalFileSystem(storage.LocalPath)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", storage.Mode)
	}
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories ---
	draftRepo := resumeinfra.NewPostgresDraftRepository(c.DB)
	memberRepo := teaminfra.NewPostgresMemberRepository(c.DB)
	invitationRepo := invitationinfra.NewPostgresInvitationRepository(c.DB)

	// --- Resume field cache ---
	var fieldCache resume.FieldCache
	var memoryCache *resumeinfra.InMemoryFieldCache
	switch c.Config.Resume.CacheMode {
	case config.CacheModeRedis:
		fieldCache = resumeinfra.NewRedisFieldCache(c.Redis)
		logx.Info("✅ Using Redis cache for resume fields")
	default:
		memoryCache = resumeinfra.NewInMemoryFieldCache()
		fieldCache = memoryCache
		logx.Warn("⚠️  Using in-memory resume cache (not shared between instances)")
	}

	// --- Optional AI enrichment ---
	var enricher resume.Enricher
	if c.Config.Resume.AIEnrichment {
		if c.Config.AI.OpenAIAPIKey == "" {
			logx.Warn("⚠️  RESUME_AI_ENRICHMENT is on but OPENAI_API_KEY is empty, enrichment disabled")
		} else {
			provider := aiopenai.NewOpenAIProvider(c.Config.AI.OpenAIAPIKey, c.Config.AI.Model)
			var opts []llm.Option
			if c.Config.AI.Seed != 0 {
				opts = append(opts, llm.WithSeed(c.Config.AI.Seed))
			}
			enricher = resumeai.NewLLMEnricher(provider, opts...)
			logx.Infof("✅ AI enrichment enabled (model: %s)", c.Config.AI.Model)
		}
	}

	// --- Token Service ---
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)

	// --- Domain Services ---
	c.ResumeService = resumesrv.NewResumeService(
		draftRepo,
		c.FileSystem,
		document.NewPDFReader(),
		fieldCache,
		enricher,
		&c.Config.Resume,
	)

	c.TeamService = teamsrv.NewTeamService(memberRepo)

	c.InvitationService = invitationsrv.NewInvitationService(
		invitationRepo,
		memberRepo,
		&c.Config.Auth.Invitation,
	)

	// --- API Handlers ---
	c.AccessHandlers = accessapi.NewAccessHandlers()
	c.ResumeHandlers = resumeapi.NewResumeHandlers(c.ResumeService, c.Config.Resume.MaxUploadBytes)
	c.TeamHandlers = teamapi.NewTeamHandlers(c.TeamService)
	c.InvitationHandlers = invitationapi.NewInvitationHandlers(c.InvitationService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)

	// --- Background Services ---
	c.CleanupService = resumeinfra.NewCleanupService(
		draftRepo,
		c.FileSystem,
		memoryCache,
		c.Config.Resume.CleanupInterval,
	)

	logx.Info("✅ All services and handlers initialized")
}

// StartBackgroundServices starts background workers
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	go c.CleanupService.Start(ctx)
	logx.Info("✅ Resume cleanup service started")

	go c.sweepInvitations(ctx, c.Config.Auth.Invitation.SweepInterval)
	logx.Info("✅ Invitation expiry sweep started")
}

// sweepInvitations marca periódicamente las invitaciones vencidas
func (c *Container) sweepInvitations(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.InvitationService.CleanupExpiredInvitations(ctx); err != nil {
			logx.WithError(err).Error("Error expiring invitations")
		}

		select {
		case <-ctx.Done():
			logx.Info("Invitation expiry sweep stopped")
			return
		case <-ticker.C:
		}
	}
}

// Cleanup closes all connections and stops workers
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
