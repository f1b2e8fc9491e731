package app

import (
	"net/http"

	"gorm.io/gorm"
	"lawpages-go/internal/config"
	"lawpages-go/internal/db"
	aptdomain "lawpages-go/internal/domain/appointment"
	clientdomain "lawpages-go/internal/domain/client"
	collabdomain "lawpages-go/internal/domain/collaboration"
	findomain "lawpages-go/internal/domain/finance"
	pagedomain "lawpages-go/internal/domain/page"
	aptrepo "lawpages-go/internal/repository/postgres/appointment"
	clientrepo "lawpages-go/internal/repository/postgres/client"
	collabrepo "lawpages-go/internal/repository/postgres/collaboration"
	finrepo "lawpages-go/internal/repository/postgres/finance"
	pagerepo "lawpages-go/internal/repository/postgres/page"
	"lawpages-go/internal/transport/httpserver"
	"lawpages-go/internal/transport/httpserver/handler"
	"lawpages-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
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

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	resolver := collabdomain.NewResolver(collabrepo.NewPostgres(dbConn))

	pages := pagedomain.NewService(pagerepo.NewPostgres(dbConn))
	collaborations := collabdomain.NewService(collabrepo.NewPostgres(dbConn), resolver)
	clients := clientdomain.NewService(clientrepo.NewPostgres(dbConn), resolver)

	appointments := aptdomain.NewService(aptrepo.NewPostgres(dbConn), resolver, clients)
	appointments.SetNotifier(newLoggingNotifier(log))

	finance := findomain.NewService(finrepo.NewPostgres(dbConn), resolver, findomain.Config{
		AvailabilityDelay: cfg.Finance.AvailabilityDelay,
		SummaryCacheTTL:   cfg.Finance.SummaryCacheTTL,
	})

	handlers := handler.New(pages, collaborations, clients, appointments, finance, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, log)

	return &App{
		cfg:        cfg,
		httpServer: httpserver.New(cfg, router),
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
