package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"gorm.io/gorm"

	"wedding-app-go/internal/config"
	"wedding-app-go/internal/db"
	budgetdomain "wedding-app-go/internal/domain/budget"
	contributionsdomain "wedding-app-go/internal/domain/contributions"
	guestsdomain "wedding-app-go/internal/domain/guests"
	seatingdomain "wedding-app-go/internal/domain/seating"
	syncdomain "wedding-app-go/internal/domain/sync"
	vendorsdomain "wedding-app-go/internal/domain/vendors"
	weddingdomain "wedding-app-go/internal/domain/wedding"
	"wedding-app-go/internal/notify"
	"wedding-app-go/internal/realtime"
	"wedding-app-go/internal/realtime/pgfeed"
	"wedding-app-go/internal/realtime/redisfeed"
	"wedding-app-go/internal/realtime/wsfeed"
	"wedding-app-go/internal/repository/inmemory"
	budgetrepo "wedding-app-go/internal/repository/postgres/budget"
	contributionsrepo "wedding-app-go/internal/repository/postgres/contributions"
	guestsrepo "wedding-app-go/internal/repository/postgres/guests"
	seatingrepo "wedding-app-go/internal/repository/postgres/seating"
	syncrepo "wedding-app-go/internal/repository/postgres/sync"
	vendorsrepo "wedding-app-go/internal/repository/postgres/vendors"
	weddingrepo "wedding-app-go/internal/repository/postgres/wedding"
	"wedding-app-go/internal/storage"
	"wedding-app-go/internal/transport/httpserver"
	"wedding-app-go/internal/transport/httpserver/handler"
	budgethandler "wedding-app-go/internal/transport/httpserver/handler/budget"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	contributionshandler "wedding-app-go/internal/transport/httpserver/handler/contributions"
	guestshandler "wedding-app-go/internal/transport/httpserver/handler/guests"
	realtimehandler "wedding-app-go/internal/transport/httpserver/handler/realtime"
	seatinghandler "wedding-app-go/internal/transport/httpserver/handler/seating"
	vendorshandler "wedding-app-go/internal/transport/httpserver/handler/vendors"
	"wedding-app-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	feed       realtime.Driver
	whatsapp   *notify.WhatsApp
	log        logger.Logger
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		_ = db.Close(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &App{cfg: cfg, db: dbConn, log: log}

	log.Info("app: initializing realtime feed", "driver", cfg.Realtime.Driver)
	a.feed, err = newFeed(ctx, cfg, dbConn, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	events := realtime.NewBroadcaster(a.feed, log)

	files := newStorage(cfg, log)
	notifier, err := a.newNotifier(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	weddings := weddingdomain.NewService(weddingrepo.NewPostgres(dbConn), inmemory.NewWeddingCache(), cfg.WeddingCacheTTL, events)
	guests := guestsdomain.NewService(guestsrepo.NewPostgres(dbConn), events, guestNotifier(notifier), cfg.Notify.PublicRSVPURL, log)
	seating := seatingdomain.NewService(seatingrepo.NewPostgres(dbConn), events)
	budget := budgetdomain.NewService(budgetrepo.NewPostgres(dbConn), events)
	vendors := vendorsdomain.NewService(vendorsrepo.NewPostgres(dbConn), events, vendorStorage(files), vendorNotifier(notifier), log)
	contributions := contributionsdomain.NewService(contributionsrepo.NewPostgres(dbConn), events, contributionStorage(files), log)
	sync := syncdomain.NewService(syncrepo.NewPostgres(dbConn), guests, contributions, budget, log)

	wsServer := wsfeed.NewServer(a.feed, wsfeed.ServerOptions{
		AllowedOrigins: cfg.Realtime.AllowedWSOrigins,
		PingInterval:   cfg.Realtime.PingInterval,
		WriteWait:      cfg.Realtime.WriteWaitDuration,
	}, log)

	handlers := &handler.Handlers{
		Common:        commonhandler.New(weddings, sync, log),
		Guests:        guestshandler.New(guests, log),
		Seating:       seatinghandler.New(seating, log),
		Budget:        budgethandler.New(budget, log),
		Vendors:       vendorshandler.New(vendors, cfg.Storage.MaxUploadBytes, log),
		Contributions: contributionshandler.New(contributions, cfg.Storage.MaxUploadBytes, log),
		Realtime:      realtimehandler.New(wsServer, log),
	}

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, weddings, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

func newFeed(ctx context.Context, cfg config.Config, dbConn *gorm.DB, log logger.Logger) (realtime.Driver, error) {
	switch cfg.Realtime.Driver {
	case config.RealtimeDriverRedis:
		feed, err := redisfeed.New(ctx, redisfeed.Options{
			Addr:     cfg.Realtime.RedisAddr,
			Password: cfg.Realtime.RedisPassword,
			DB:       cfg.Realtime.RedisDB,
			Buffer:   cfg.Realtime.SubscriberBuffer,
		}, log)
		if err != nil {
			return nil, err
		}
		return feed, nil
	case config.RealtimeDriverPostgres:
		return pgfeed.New(dbConn, pgfeed.Options{
			DSN:          cfg.DB.GetDSN(),
			MinReconnect: cfg.Realtime.MinReconnect,
			MaxReconnect: cfg.Realtime.MaxReconnect,
			Buffer:       cfg.Realtime.SubscriberBuffer,
		}, log), nil
	default:
		return realtime.NewHub(cfg.Realtime.SubscriberBuffer), nil
	}
}

func newStorage(cfg config.Config, log logger.Logger) *storage.Client {
	client, err := storage.NewClient(cfg.Supabase, cfg.Storage, log)
	if err != nil {
		log.Warn("app: file storage disabled", "reason", err.Error())
		return nil
	}
	return client
}

// newNotifier links the configured channels. It returns nil when none is
// usable so the domain services report notifications as disabled.
func (a *App) newNotifier(ctx context.Context, cfg config.Config) (*notify.Dispatcher, error) {
	var functions notify.Invoker
	if client, err := notify.NewFunctions(cfg.Supabase, cfg.Notify.RequestTimeout); err == nil {
		functions = client
	} else {
		a.log.Warn("app: email notifications disabled", "reason", err.Error())
	}

	var messenger notify.Messenger
	if cfg.Notify.WhatsAppEnabled {
		client, err := notify.NewWhatsApp(ctx, cfg.Notify.WhatsAppDataDir, os.Stdout)
		if err != nil {
			return nil, err
		}
		a.log.Info("app: linking whatsapp device")
		if err := client.Connect(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect whatsapp: %w", err)
		}
		a.whatsapp = client
		messenger = client
	}

	if functions == nil && messenger == nil {
		return nil, nil
	}
	return notify.NewDispatcher(functions, cfg.Notify.EmailFunction, messenger, a.log), nil
}

// The adapters below keep a nil pointer from turning into a non-nil
// interface.

func guestNotifier(d *notify.Dispatcher) guestsdomain.Notifier {
	if d == nil {
		return nil
	}
	return d
}

func vendorNotifier(d *notify.Dispatcher) vendorsdomain.Notifier {
	if d == nil {
		return nil
	}
	return d
}

func vendorStorage(c *storage.Client) vendorsdomain.Storage {
	if c == nil {
		return nil
	}
	return c
}

func contributionStorage(c *storage.Client) contributionsdomain.Storage {
	if c == nil {
		return nil
	}
	return c
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.whatsapp != nil {
		a.whatsapp.Close()
	}
	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close feed: %w", err))
		}
	}
	if err := db.Close(a.db); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	return errors.Join(errs...)
}
