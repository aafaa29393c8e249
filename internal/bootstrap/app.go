package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/randyf333/SylliAI/internal/config"
	"github.com/randyf333/SylliAI/internal/model"
	postgresClient "github.com/randyf333/SylliAI/internal/platform/postgres"
	rabbitmqClient "github.com/randyf333/SylliAI/internal/platform/rabbitmq"
	redisClient "github.com/randyf333/SylliAI/internal/platform/redis"
	"github.com/randyf333/SylliAI/internal/repository"
	"github.com/randyf333/SylliAI/internal/session"
	"github.com/randyf333/SylliAI/internal/storage"
	"github.com/randyf333/SylliAI/internal/worker"
)

type App struct {
	Config        *config.Config
	Postgres      *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	Sessions      *session.Store
	Uploads       *storage.UploadStore
	ChatLogWorker *worker.ChatLogWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	db, err := postgresClient.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Syllabus{}, &model.Document{}, &model.ChatLog{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	uploads, err := storage.NewUploadStore(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(redisCli, time.Duration(cfg.Auth.SessionTTLHour)*time.Hour)

	chatLogRepo := repository.NewChatLogRepository(db)
	chatLogWorker := worker.NewChatLogWorker(mqConn, chatLogRepo, cfg.RabbitMQ.ChatLogQueue)
	if err := chatLogWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start chat log worker failed: %w", err)
	}

	return &App{
		Config:        cfg,
		Postgres:      db,
		Redis:         redisCli,
		MQConn:        mqConn,
		Sessions:      sessions,
		Uploads:       uploads,
		ChatLogWorker: chatLogWorker,
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ChatLogWorker != nil {
		a.ChatLogWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Postgres != nil {
		sqlDB, err := a.Postgres.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
