package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"postboard/app/auth"
	"postboard/app/config"
	"postboard/app/diaglog"
	"postboard/app/gql"
	"postboard/app/media"
	"postboard/app/metrics"
	"postboard/app/repositories"
	"postboard/app/routes"
	"postboard/app/services"
	"postboard/app/tracing"
)

const shutdownTimeout = 10 * time.Second

// App is a fully wired server and the resources it owns.
type App struct {
	Handler http.Handler

	store    *repositories.Store
	diag     *diaglog.Logger
	shutdown tracing.Shutdown
}

// NewApp opens storage and builds every layer from cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	shutdown, err := tracing.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	store, err := repositories.NewStore(cfg.DBPath)
	if err != nil {
		shutdown(ctx)
		return nil, fmt.Errorf("open database: %w", err)
	}

	diag, err := diaglog.Open(cfg.DiagLog)
	if err != nil {
		store.Close()
		shutdown(ctx)
		return nil, err
	}
	app := &App{store: store, diag: diag, shutdown: shutdown}

	uploader, err := newUploader(ctx, cfg.S3)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	repos := repositories.NewRepositories(store)
	issuer := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL, repos.Sessions)
	svc := services.New(repos, issuer)
	m := metrics.New()

	schema, err := gql.NewSchema(svc, diag, m)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}

	app.Handler = routes.SetupRoutes(routes.Config{
		Services: svc,
		Uploader: uploader,
		GraphQL:  gql.NewHandler(schema, issuer, diag),
		Metrics:  m,
	})
	return app, nil
}

func newUploader(ctx context.Context, cfg config.S3Config) (media.Uploader, error) {
	if cfg.Endpoint == "" {
		log.Println("S3_ENDPOINT not set, media uploads disabled")
		return media.Disabled{}, nil
	}
	up, err := media.NewS3Uploader(media.S3Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	if err := up.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.Bucket, err)
	}
	return up, nil
}

// Close releases the database, diagnostic log and tracer.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.diag != nil {
		errs = append(errs, a.diag.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
	}
	return errors.Join(errs...)
}

func serve(cfg *config.Config) int {
	if err := cfg.RequireSecret(); err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			log.Printf("Error during close: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Starting postboard on %s", cfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	log.Println("Server stopped")
	return 0
}

// runServer serves until ctx is done and then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
