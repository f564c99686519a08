package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/zoobzio/stego"
	"github.com/zoobzio/stego/internal/artifact"
	"github.com/zoobzio/stego/internal/config"
	"golang.org/x/sync/errgroup"

	// Output formats selectable by name.
	_ "github.com/zoobzio/stego/bmp"
	_ "github.com/zoobzio/stego/jpeg"
	_ "github.com/zoobzio/stego/png"
	_ "github.com/zoobzio/stego/tiff"
)

const readHeaderTimeout = 10 * time.Second

// Run listens on cfg.Addr and serves until ctx is canceled.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return Serve(ctx, ln, cfg, logger)
}

// Serve serves on ln until ctx is canceled, sweeping expired artifacts in the
// background and logging codec events. It shuts down gracefully, waiting up to cfg.ShutdownTimeout for
// in-flight requests.
func Serve(ctx context.Context, ln net.Listener, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	events := observeEvents(logger)
	defer events.Close()

	format, store, handler, err := build(cfg, logger)
	if err != nil {
		ln.Close() //nolint:errcheck,gosec // setup error takes precedence
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", ln.Addr().String(), "format", format.Name(), "store", store.Root())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return store.Run(gctx, cfg.SweepInterval, func(removed int, err error) {
			if err != nil {
				logger.Warn("artifact sweep", "removed", removed, "error", err)
				return
			}
			if removed > 0 {
				logger.Debug("artifact sweep", "removed", removed)
			}
		})
	})

	return g.Wait()
}

// build resolves the output format and opens the artifact store.
func build(cfg config.Config, logger *slog.Logger) (stego.Format, *artifact.Store, http.Handler, error) {
	format, err := stego.Lookup(cfg.OutputFormat)
	if err != nil {
		return nil, nil, nil, err
	}
	proc, err := stego.Use(format)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := artifact.New(cfg.UploadDir, cfg.ArtifactTTL)
	if err != nil {
		return nil, nil, nil, err
	}
	return format, store, New(proc, store, logger, cfg.MaxUploadBytes, cfg.MaxPixels).Handler(), nil
}
