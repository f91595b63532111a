package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nilszeilon/promptimg/internal/api"
	"github.com/nilszeilon/promptimg/internal/config"
	"github.com/nilszeilon/promptimg/internal/i18n"
	"github.com/nilszeilon/promptimg/internal/logging"
	"github.com/nilszeilon/promptimg/internal/preview"
)

func main() {
	var configPath, port string

	cmd := &cobra.Command{
		Use:          "promptimg-server",
		Short:        "Serve the prompt image API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&port, "port", "", "server port (default from config, 8080)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	if err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
		return err
	}

	if cfg.Token == "" {
		log.Warnf("%s not set, API is unauthenticated", config.EnvToken)
	}

	catalog, err := i18n.Open(cfg.LocalesDir, cfg.Language, cfg.Fallback)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	mux := http.NewServeMux()
	handler := api.NewHandler(preview.NewRenderer(), catalog, cfg.Token)
	handler.RegisterRoutes(mux)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go reloadOnSignal(ctx, i18n.NewDebugger(catalog, log.StandardLogger().Out), hup)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("server starting on %s", addr)
	log.Printf("locales: %v (language %s, fallback %s)", catalog.Languages(), catalog.Language(), catalog.Fallback())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// reloadOnSignal re-reads the locale files every time sig fires, until ctx is
// done. A failed reload keeps the previous translations.
func reloadOnSignal(ctx context.Context, d *i18n.Debugger, sig <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			if err := d.Reload(); err != nil {
				log.Printf("reload locales: %v", err)
				continue
			}
			log.Printf("locales reloaded: %v", d.Status().Supported)
		}
	}
}
