package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/loresagaashi/cv-converter-agent/competence/cv/cvapi"
	"github.com/loresagaashi/cv-converter-agent/competence/cv/cvinfra"
	"github.com/loresagaashi/cv-converter-agent/competence/cv/cvsrv"
	"github.com/loresagaashi/cv-converter-agent/competence/cv/worker"
	"github.com/loresagaashi/cv-converter-agent/competence/paper/paperapi"
	"github.com/loresagaashi/cv-converter-agent/competence/paper/paperinfra"
	"github.com/loresagaashi/cv-converter-agent/competence/paper/papersrv"
	"github.com/loresagaashi/cv-converter-agent/competence/session/sessionapi"
	"github.com/loresagaashi/cv-converter-agent/competence/session/sessioninfra"
	"github.com/loresagaashi/cv-converter-agent/competence/session/sessionsrv"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/answercls"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/llmx"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/recruiterflow"
	"github.com/loresagaashi/cv-converter-agent/internal/pdftemplate"
	"github.com/loresagaashi/cv-converter-agent/internal/speech"
	"github.com/loresagaashi/cv-converter-agent/pkg/auth"
	"github.com/loresagaashi/cv-converter-agent/pkg/fsx"
	"github.com/loresagaashi/cv-converter-agent/pkg/fsx/fsxs3"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

// Container holds all application dependencies
type Container struct {
	// Config
	AuthConfig auth.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Shared services
	TokenService auth.TokenService
	LLMClient    *llmx.Client
	Speech       *speech.OpenAISpeech
	Projector    *pdftemplate.Projector
	Renderer     pdftemplate.Renderer

	// Domain services
	CVService      *cvsrv.Service
	PaperService   *papersrv.Service
	SessionService *sessionsrv.Service

	// Background processing
	WorkerPool *worker.Pool

	// API handlers
	CVHandler      *cvapi.Handler
	PaperHandler   *paperapi.Handler
	SessionHandler *sessionapi.Handler

	// Middleware
	AuthMiddleware fiber.Handler
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. AWS S3 Configuration
	awsRegion := os.Getenv("AWS_REGION")
	awsBucket := os.Getenv("AWS_BUCKET")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(cfg)
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, awsBucket, "uploads")

	// 4. Auth Config
	c.AuthConfig = auth.DefaultConfig()
	c.AuthConfig.SecretKey = os.Getenv("JWT_SECRET")
	if c.AuthConfig.SecretKey == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		c.AuthConfig.SecretKey = "super-secret-key-please-change-me-in-production"
	}

	// 5. OpenAI clients
	llmConfig := llmx.DefaultConfig()
	llmConfig.APIKey = os.Getenv("OPENAI_API_KEY")
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		llmConfig.Model = model
	}
	c.LLMClient = llmx.NewClient(llmConfig)

	speechConfig := speech.DefaultConfig(os.Getenv("OPENAI_API_KEY"))
	if lang := os.Getenv("INTERVIEW_LANGUAGE"); lang != "" {
		speechConfig.SupportedLanguage = lang
	}
	c.Speech = speech.NewOpenAISpeech(speechConfig)

	// 6. PDF rendering
	c.Projector = pdftemplate.NewProjector(os.Getenv("FOOTER_LOGO_URL"))
	c.Renderer = pdftemplate.NewHTTPRenderer(os.Getenv("PDF_RENDERER_URL"), 30*time.Second)
}

func (c *Container) initServices() {
	// --- Repositories ---
	cvRepo := cvinfra.NewPostgresCVRepository(c.DB)
	jobRepo := cvinfra.NewPostgresJobRepository(c.DB)
	queue := cvinfra.NewRedisQueue(c.Redis)
	paperRepo := paperinfra.NewPostgresPaperRepository(c.DB)
	sessionRepo := sessioninfra.NewPostgresSessionRepository(c.DB)
	turnStore := sessioninfra.NewPostgresTurnStore(c.DB)
	finalPaperRepo := sessioninfra.NewPostgresFinalPaperRepository(c.DB)
	sessionLock := sessioninfra.NewRedisLock(c.Redis)

	// --- Shared services ---
	c.TokenService = auth.NewJWTService(c.AuthConfig)

	// --- Domain services ---
	c.CVService = cvsrv.NewService(
		cvRepo, jobRepo, queue, paperRepo,
		c.FileSystem, c.LLMClient, c.Projector, c.Renderer,
	)
	c.PaperService = papersrv.NewService(paperRepo, c.Projector, c.Renderer)

	engine := sessionsrv.NewConversationEngine(
		sessionsrv.NewSectionSequencer(),
		recruiterflow.NewGenerator(c.LLMClient),
	)
	c.SessionService = sessionsrv.NewService(
		sessionRepo, turnStore, finalPaperRepo, cvRepo, paperRepo,
		sessionLock, engine, answercls.NewClassifier(c.LLMClient),
	)

	// --- Background workers ---
	workerCount, _ := strconv.Atoi(os.Getenv("WORKER_COUNT"))
	c.WorkerPool = worker.NewPool(c.CVService, queue, workerCount)

	// --- Handlers ---
	c.CVHandler = cvapi.NewHandler(c.CVService)
	c.PaperHandler = paperapi.NewHandler(c.PaperService, c.CVService)
	c.SessionHandler = sessionapi.NewHandler(
		c.SessionService, c.CVService,
		c.Speech, c.Speech,
		c.Projector, c.Renderer,
	)

	// --- Middleware ---
	c.AuthMiddleware = auth.Middleware(c.TokenService)
}
