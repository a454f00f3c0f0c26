package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"
	"github.com/bdfreeman1421/WoWAnalyzer/analysispool"
	"github.com/bdfreeman1421/WoWAnalyzer/cache"
	"github.com/bdfreeman1421/WoWAnalyzer/config"
	"github.com/bdfreeman1421/WoWAnalyzer/frontend"
	"github.com/bdfreeman1421/WoWAnalyzer/share"
	"github.com/bdfreeman1421/WoWAnalyzer/wcl"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web frontend",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// stores opens the caches of the server. Results go to Redis when an address
// is configured so several instances share them.
func stores(cfg *config.Config) (results cache.Storage, purgeable []*cache.FileStorage, err error) {
	events, err := cache.NewStorage(filepath.Join(cfg.Cache.Dir, "events"), cfg.Cache.EventTTL, wcl.QueryFS)
	if err != nil {
		return nil, nil, err
	}
	purgeable = append(purgeable, events)

	if cfg.Cache.RedisAddr != "" {
		rs, err := cache.NewRedisStorage(cfg.Cache.RedisAddr, "wowanalyzer:results:", cfg.Cache.ResultTTL)
		if err != nil {
			return nil, nil, err
		}
		return rs, purgeable, nil
	}

	fs, err := cache.NewStorage(filepath.Join(cfg.Cache.Dir, "results"), cfg.Cache.ResultTTL)
	if err != nil {
		return nil, nil, err
	}
	purgeable = append(purgeable, fs)

	return fs, purgeable, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	err = share.InitSentry(cfg.SentryDSN)
	if err != nil {
		return errors.Wrap(err, "sentry")
	}
	defer sentry.Flush(2 * time.Second)

	results, purgeable, err := stores(cfg)
	if err != nil {
		return err
	}

	client, err := wcl.New(cfg.WCL, purgeable[0])
	if err != nil {
		return err
	}
	pool := analysispool.New(analysis.New(client), results, cfg.Server.MaxQueue)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go pool.Run(ctx)

	c := cron.New()
	if cfg.Cache.Cleanup != "" {
		_, err = c.AddFunc(cfg.Cache.Cleanup, func() {
			for _, fs := range purgeable {
				n, err := fs.Purge()
				if err != nil {
					sentry.CaptureException(err)
					log.Printf("Purge: %+v", err)
					continue
				}
				if n > 0 {
					log.Printf("Purge: %d entries", n)
				}
			}
		})
		if err != nil {
			return errors.Wrap(err, "cache.cleanup")
		}
	}
	c.Start()
	defer c.Stop()

	g := gin.New()
	frontend.Route(g, cfg, pool)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           g,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listen: %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if err != http.ErrServerClosed {
			return errors.WithStack(err)
		}
		return nil

	case <-ctx.Done():
	}

	log.Printf("Shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
