// Package server wires the postgate components together and runs the public
// HTTP API and the gRPC health endpoint until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/postgate/internal/logging"
	"github.com/dmitrijs2005/postgate/internal/server/auth"
	"github.com/dmitrijs2005/postgate/internal/server/config"
	"github.com/dmitrijs2005/postgate/internal/server/hashing"
	"github.com/dmitrijs2005/postgate/internal/server/httpapi"
	"github.com/dmitrijs2005/postgate/internal/server/mailer"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postgate/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/postgate/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	sessions       *auth.SessionManager
	accountService *services.AccountService
	postService    *services.PostService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	sender, err := newMailSender(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	hasher := hashing.NewMultiHasher(newPrimaryHasher(c), c.BcryptCost)
	sessions := auth.NewSessionManager(c.JWTSecret, c.SessionTTL)
	codes := services.NewCodeManager(rm, c.CodeSecret, c.CodeTTL)

	as := services.NewAccountService(db, rm, hasher, sessions, codes, sender, c.MailFrom, logger)
	ps := services.NewPostService(db, rm, c.PostsPerPage, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		sessions:       sessions,
		accountService: as,
		postService:    ps,
	}, nil
}

func newPrimaryHasher(c *config.Config) hashing.Hasher {
	if c.PasswordHasher == config.HasherArgon2id {
		return hashing.NewArgon2Hasher()
	}
	return hashing.NewBcryptHasher(c.BcryptCost)
}

func newMailSender(ctx context.Context, c *config.Config, logger logging.Logger) (mailer.Sender, error) {
	if c.MailDriver == config.MailDriverSES {
		return mailer.NewSESSender(ctx, mailer.SESConfig{
			Region:    c.SESRegion,
			Endpoint:  c.SESEndpoint,
			AccessKey: c.SESAccessKey,
			SecretKey: c.SESSecretKey,
		}, logger)
	}
	return mailer.NewWriterSender(os.Stdout, logger), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.accountService, app.postService, app.sessions,
		httpapi.CookieOptions{TTL: app.config.SessionTTL, Secure: app.config.Production})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
