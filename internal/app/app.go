package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/surfsky/GoodsAI/internal/cfg"
	v1Http "github.com/surfsky/GoodsAI/internal/delivery/v1/http"
	"github.com/surfsky/GoodsAI/internal/infrastructure/kafka"
	minioInfra "github.com/surfsky/GoodsAI/internal/infrastructure/minio"
	"github.com/surfsky/GoodsAI/internal/infrastructure/search"
	"github.com/surfsky/GoodsAI/internal/infrastructure/vision"
	s3Repo "github.com/surfsky/GoodsAI/internal/repository/minio"
	"github.com/surfsky/GoodsAI/internal/repository/pgdb"
	pgdbConv "github.com/surfsky/GoodsAI/internal/repository/pgdb/converter"
	"github.com/surfsky/GoodsAI/internal/repository/redis"
	redisConv "github.com/surfsky/GoodsAI/internal/repository/redis/converter"
	"github.com/surfsky/GoodsAI/internal/usecase"
	"github.com/surfsky/GoodsAI/pkg/clients"
	"github.com/surfsky/GoodsAI/pkg/closer"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
	"github.com/surfsky/GoodsAI/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	appCloser := closer.NewCloser(0)
	shutdownCtx, shutdownCancelAll := context.WithCancel(context.Background())
	defer shutdownCancelAll()

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}
	appCloser.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverter()
	imgConv := pgdbConv.NewImageConverter()
	infoConv := redisConv.NewProductInfoConverter()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	imageRecordRepo := pgdb.NewImageRepo(db.Pool, imgConv)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, logger, shutdownCtx)
	appCloser.Add(imagesInfra.WaitForCleanup)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, logger)
	appCloser.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}
	appCloser.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	// Пайплайн извлечения признаков: сессия модели создаётся лениво,
	// первый запрос распознавания загружает модель.
	extractor := vision.NewExtractor(vision.NewOnnxSessionFactory(cfg.Onnx), logger)
	appCloser.Add(func(ctx context.Context) error {
		return extractor.Close()
	})
	vectorizer := vision.NewPipeline(vision.NewPreprocessor(), extractor, cfg.Onnx.RunTimeout)
	processor := vision.NewProcessor()
	engine := search.NewEngine()

	recognitionUC := usecase.NewRecognitionUC(vectorizer, engine, imageRecordRepo, logger, cfg.Batch.TopK)
	catalogUC := usecase.NewCatalogUC(
		productRepo,
		imageRecordRepo,
		db.Pool,
		vectorizer,
		processor,
		imagesInfra,
		cacheRepo,
		producer,
		logger,
	)
	batchUC := usecase.NewBatchUC(
		productRepo,
		imageRecordRepo,
		vectorizer,
		processor,
		imagesInfra,
		cacheRepo,
		producer,
		logger,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(recognitionUC, catalogUC, batchUC, cfg.Batch, extractor)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownTimeoutCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownTimeoutCtx); err != nil {
		logger.Errorf(err, "HTTP server shutdown error")
	} else {
		logger.Infof("HTTP server stopped")
	}

	if err := appCloser.Close(shutdownTimeoutCtx); err != nil {
		logger.Warnf("shutdown finished with errors: %v", err)
	}

	logger.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
