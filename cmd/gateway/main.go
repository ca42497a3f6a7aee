package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"skillspace-backend/internal/config"
	delivery "skillspace-backend/internal/delivery/http"
	"skillspace-backend/internal/delivery/http/utils"
	"skillspace-backend/internal/repo"
	"skillspace-backend/internal/repo/cockroach"
	"skillspace-backend/internal/repo/memory"
	redisrepo "skillspace-backend/internal/repo/redis"
	"skillspace-backend/internal/repo/s3"
	"skillspace-backend/internal/usecase/service"
	"skillspace-backend/pkg/connector"
	"skillspace-backend/pkg/goosehelper"
	"skillspace-backend/pkg/retry"

	"github.com/jmoiron/sqlx"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка в конфигурации: %v", err)
	}

	// cockroach: база может подниматься дольше сервиса, поэтому подключаемся с ретраями
	var dbConn *sqlx.DB
	err = retry.Retry(func() error {
		var connErr error
		dbConn, connErr = connector.GetCockroachConnector(cfg.DatabaseDSN)
		return connErr
	})
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// Выполнить миграции при старте
	goosehelper.MigrateUp(dbConn.DB, cfg.MigrationsDir)

	// minio
	minioClient, err := connector.GetMinioConnector(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	// Хранилище одноразовых OAuth state: Redis при развёртывании в несколько
	// инстансов, иначе память процесса
	var stateRepo repo.State
	if cfg.State.RedisAddr != "" {
		redisClient, err := connector.GetRedisConnector(cfg.State.RedisAddr)
		if err != nil {
			log.Fatalf("Ошибка при подключении к Redis: %v", err)
		}
		stateRepo = redisrepo.NewState(redisClient)
	} else {
		stateRepo = memory.NewState()
	}

	// запускаем сервисы репозиториев (подключение к хранилищам)
	userRepo := cockroach.NewUser(dbConn)
	photoRepo, err := s3.NewPhoto(minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория фотографий: %v", err)
	}

	// Инициализация VK OAuth
	vkOAuth := utils.NewVKOAuth(cfg.VK.ClientID, cfg.VK.ClientSecret, cfg.VK.RedirectURL, cfg.VK.APIVersion, cfg.VK.Timeout)

	// запускаем сервисы usecase (бизнес-логика)
	userUseCase := service.NewUser(userRepo, photoRepo)
	vkAuthUseCase := service.NewVKAuth(stateRepo, userRepo, vkOAuth, cfg.State.TTL)

	// запускаем сервисы delivery (обработка запросов)
	cookieManager := utils.NewCookieManager(cfg.SecureCookies)
	authManager := utils.NewAuthManager([]byte(cfg.JWT.Secret), cfg.JWT.Lifetime)
	userDelivery := delivery.NewUser(userUseCase, vkAuthUseCase, authManager, cookieManager, cfg.JWT.Lifetime)

	// REST API
	echoServer := echo.New()

	// Не более 10 МБ
	echoServer.Use(middleware.BodyLimit("10M"))
	// gzip на прием
	echoServer.Use(middleware.Decompress())
	// gzip на отдачу
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// request id
	echoServer.Use(middleware.RequestID())

	// Endpoints
	users := echoServer.Group("/users")
	userDelivery.Configure(users)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(10)*time.Second,
	)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}
