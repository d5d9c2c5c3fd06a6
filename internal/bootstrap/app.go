package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "carrental/internal/app"
	"carrental/internal/cache"
	"carrental/internal/config"
	"carrental/internal/model"
	mysqlClient "carrental/internal/platform/mysql"
	postgresClient "carrental/internal/platform/postgres"
	rabbitmqClient "carrental/internal/platform/rabbitmq"
	redisClient "carrental/internal/platform/redis"
	"carrental/internal/repository"
	"carrental/internal/worker"
)

// App owns every long-lived client and the services built on them.
type App struct {
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	BookingWorker *worker.BookingEventWorker

	Auth     *appsvc.AuthService
	Catalog  *appsvc.CatalogService
	Bookings *appsvc.BookingService

	StartedAt time.Time

	closeDB func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, StartedAt: time.Now()}

	if err := a.openDatabase(ctx); err != nil {
		return nil, err
	}
	if err := a.DB.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.Car{},
		&model.Booking{},
		&model.BookingEvent{},
	); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	if a.DB.Dialector.Name() == "mysql" {
		if err := mysqlClient.PinUsernameCollation(ctx, a.DB); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = redisCli
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.BookingEventQueue)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = mqConn
	}

	userRepo := repository.NewUserRepository(a.DB)
	carRepo := repository.NewCarRepository(a.DB)
	bookingRepo := repository.NewBookingRepository(a.DB)
	eventRepo := repository.NewBookingEventRepository(a.DB)

	var (
		carCache  appsvc.CarCache
		seedLock  appsvc.SeedLocker
		publisher appsvc.BookingEventPublisher
	)
	if a.Redis != nil {
		carCache = cache.NewCarCache(a.Redis, time.Duration(cfg.Redis.CarsTTLSeconds)*time.Second)
		seedLock = cache.NewSeedLock(a.Redis, time.Duration(cfg.Redis.SeedLockTTLSeconds)*time.Second)
	}
	if a.MQConn != nil {
		publisher = rabbitmqClient.NewBookingEventPublisher(a.MQConn, cfg.RabbitMQ.BookingEventQueue)

		a.BookingWorker = worker.NewBookingEventWorker(a.MQConn, eventRepo, cfg.RabbitMQ.BookingEventQueue)
		if err := a.BookingWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start booking event worker failed: %w", err)
		}
	}

	a.Auth = appsvc.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.JWTExpiration())
	a.Catalog = appsvc.NewCatalogService(carRepo, carCache, seedLock)
	a.Bookings = appsvc.NewBookingService(carRepo, bookingRepo, eventRepo, publisher)

	return a, nil
}

func (a *App) openDatabase(ctx context.Context) error {
	switch a.Config.Database.Driver {
	case "postgres":
		pg, err := postgresClient.New(ctx, a.Config.DatabaseDSN())
		if err != nil {
			return err
		}
		a.DB = pg.Gorm
		a.closeDB = pg.Close
	default:
		db, err := mysqlClient.New(ctx, a.Config.DatabaseDSN())
		if err != nil {
			return err
		}
		a.DB = db
		a.closeDB = func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	}
	slog.Info("database connected", "driver", a.Config.Database.Driver)
	return nil
}

// Close stops the worker before the broker connection and closes the
// database last.
func (a *App) Close() error {
	var errs []error
	if a.BookingWorker != nil {
		a.BookingWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
