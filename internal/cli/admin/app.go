package admin

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/greenplate/internal/cache"
	"github.com/cloo-solutions/greenplate/internal/config"
	"github.com/cloo-solutions/greenplate/internal/database"
	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/repository"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/cloo-solutions/greenplate/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// app holds the wired engine shared by serve and the operator commands.
type app struct {
	cfg  *config.Config
	pool *pgxpool.Pool
	rdb  *goredis.Client

	catalogRepo     *repository.CatalogRepository
	interactionRepo *repository.InteractionRepository
	searchLogRepo   *repository.SearchLogRepository
	userRepo        *repository.UserRepository
	tx              *repository.TxRunner
	images          *storage.ImageStore

	discovery    *service.DiscoveryService
	interactions *service.InteractionService
	cookbook     *service.CookbookService
	histogram    *service.HistogramService
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, nil
}

// newApp connects to Postgres and the optional Redis and S3 backends and
// wires the services. Optional backends that fail to connect are skipped.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, err
	}
	logging.Info().Msg("connected to database")

	a := &app{
		cfg:             cfg,
		pool:            pool,
		catalogRepo:     repository.NewCatalogRepository(pool),
		interactionRepo: repository.NewInteractionRepository(pool),
		searchLogRepo:   repository.NewSearchLogRepository(pool),
		userRepo:        repository.NewUserRepository(pool),
		tx:              repository.NewTxRunner(pool),
	}

	var catalog service.CatalogRepositoryInterface = a.catalogRepo
	if cfg.HasRedis() {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, similarity cache disabled")
		} else {
			a.rdb = rdb
			catalog = cache.NewSimilarityCache(a.catalogRepo, rdb, cfg.SimilarityTTL)
			logging.Info().Dur("ttl", cfg.SimilarityTTL).Msg("similarity cache enabled")
		}
	}

	if cfg.HasS3() {
		images, err := storage.NewImageStore(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
			URLExpiry:       cfg.ImageURLExpiry,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create image store: %w", err)
		}
		a.images = images
	}

	assembler := service.NewAssembler(a.interactionRepo)
	if a.images != nil {
		assembler = assembler.WithImageResolver(a.images)
	}

	text, err := service.NewTextSearch(catalog).WithFuzzyColumn(domain.FuzzyColumn(cfg.FuzzyColumn))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.discovery = service.NewDiscoveryService(catalog, text, service.NewRecommender(catalog), assembler, service.DiscoveryConfig{
		FreeSearchLimit: cfg.FreeSearchLimit,
		PageSize:        cfg.PageSize,
	})
	a.interactions = service.NewInteractionServiceWithTx(a.catalogRepo, a.interactionRepo, a.tx)
	a.cookbook = service.NewCookbookService(a.interactionRepo, assembler, cfg.CookbookPageSize)
	a.histogram = service.NewHistogramService(a.catalogRepo, cfg.HistogramBins)

	return a, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	a.pool.Close()
}
