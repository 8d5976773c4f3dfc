package cmd

import (
	"context"
	"errors"
	"io/ioutil"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukagaka/shiori/ghost"
	"github.com/ukagaka/shiori/internal/env"
	"github.com/ukagaka/shiori/internal/meta"
	"github.com/ukagaka/shiori/storage"
	"github.com/ukagaka/shiori/transport"
)

var (
	// The host to listen on
	host string

	// The port to listen for admin http requests on
	httpPort string

	// The port to listen for baseware connections on
	port int
)

func init() {
	flags := StartCmd.PersistentFlags()

	flags.IntVarP(&port, "port", "p", 9801, "The port to listen for baseware connections on")
	flags.StringVar(&httpPort, "http-port", "9800", "The port to listen to admin HTTP requests on")
	flags.StringVarP(&host, "host", "a", "0.0.0.0", "The host to listen on")
}

var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start up the SHIORI bridge service",
	Long: `Start up the SHIORI bridge service

Usage
	shiori start

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		log, err := env.MakeLogger(conf.DebugHTTP)
		if err != nil {
			return err
		}

		fileLimit, err := setFileLimit()
		if err != nil {
			return err
		}

		log.Info("Set file limit", zap.Uint64("fileLimit", fileLimit))

		store := storage.NewInmemoryStore()
		defer store.Close()

		if conf.Talks != "" {
			talks, err := ioutil.ReadFile(conf.Talks)
			if err != nil {
				return err
			}

			if err := store.Restore(talks); err != nil {
				return err
			}

			log.Info("Loaded talk dictionary", zap.String("path", conf.Talks))
		}

		// Log dictionary changes as they are taught
		go func() {
			for update := range store.ListenToUpdates() {
				log.Info("Talk entry updated", zap.String("event", update.Event))
			}
		}()

		version := meta.Version
		if version == "" {
			version = "dev"
		}

		responder := ghost.NewResponder(store, conf.GhostName, version, log.Named("ghost"))

		router := setupRouter(conf.DebugHTTP, log)
		registerAdminRoutes(router, store)

		s := &http.Server{
			Addr:    net.JoinHostPort(host, httpPort),
			Handler: router,
		}

		// Initializing the server in a goroutine so that
		// it won't block the graceful shutdown handling below
		go func() {
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		tcp := transport.NewTCP(transport.Options{
			Host:      host,
			Port:      port,
			Reuseport: true,
			Handler:   responder,
			Log:       log.Named("transport"),
		})

		if err := tcp.Start(ctx); err != nil {
			return err
		}

		log.Info("Listening",
			zap.Any("config", conf),
			zap.String("host", host),
			zap.Int("port", port),
			zap.String("httpPort", httpPort))

		// Listen for the interrupt signal.
		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(ctx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		if err := tcp.Close(); err != nil {
			log.Error("TCP server forced to shutdown", zap.Error(err))
		}

		log.Info("Exiting")
		return nil
	},
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}

// registerAdminRoutes exposes the talk dictionary for inspection and
// live editing while the bridge runs.
func registerAdminRoutes(r *gin.Engine, store storage.Store) {
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.GET("/talks", func(c *gin.Context) {
		talks, err := store.Backup()
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}

		c.Data(http.StatusOK, "application/json", talks)
	})

	r.PUT("/talks/:event", func(c *gin.Context) {
		script, err := ioutil.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}

		if err := store.Teach(c.Request.Context(), c.Param("event"), string(script)); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}

		c.Status(http.StatusNoContent)
	})
}

func setFileLimit() (uint64, error) {
	var rLimit syscall.Rlimit

	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	rLimit.Cur = rLimit.Max
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	return rLimit.Cur, nil
}
