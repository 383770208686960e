package app

import (
	"net/http"

	"gorm.io/gorm"

	"family-organizer/internal/config"
	"family-organizer/internal/db"
	familydomain "family-organizer/internal/domain/family"
	identitydomain "family-organizer/internal/domain/identity"
	"family-organizer/internal/domain/task"
	"family-organizer/internal/domain/token"
	familyrepo "family-organizer/internal/repository/postgres/family"
	identityrepo "family-organizer/internal/repository/postgres/identity"
	taskrepo "family-organizer/internal/repository/postgres/task"
	"family-organizer/internal/transport/httpserver"
	"family-organizer/internal/transport/httpserver/handler"
	authmw "family-organizer/internal/transport/httpserver/middleware"
	"family-organizer/internal/upload"
	"family-organizer/pkg/logger"
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

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	tokens := token.NewService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	users := identityrepo.NewPostgres(dbConn)
	families := familyrepo.NewPostgres(dbConn)
	tasks := taskrepo.NewPostgres(dbConn)

	authSvc := identitydomain.NewService(users, tokens)
	familySvc := familydomain.NewService(families, users)
	taskSvc := task.NewService(tasks)

	uploads, err := upload.NewStore(cfg.Upload)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing router")
	handlers := handler.New(authSvc, familySvc, taskSvc, uploads, log)
	router := httpserver.NewRouter(cfg, handlers, authmw.NewAuth(tokens))

	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
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
