package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/francefarms/bioestate/app/services/bioestate/handlers"
	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/business/sys/dedup"
	"github.com/francefarms/bioestate/foundation/events"
	"github.com/francefarms/bioestate/foundation/ledger"
	"github.com/francefarms/bioestate/foundation/logger"
	"github.com/francefarms/bioestate/foundation/media"
	"github.com/francefarms/bioestate/foundation/nameservice"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("BIOESTATE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// Credentials for the messaging provider usually live in a .env file
	// next to the binary. The file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:30s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			APIHost         string        `conf:"default:0.0.0.0:5000"`
			DebugHost       string        `conf:"default:0.0.0.0:5001"`
			CORSOrigin      string        `conf:"default:*"`
		}
		Ledger struct {
			Path string `conf:"default:seasonal_log.csv"`
		}
		Media struct {
			Dir          string        `conf:"default:starch_mango_database"`
			MaxBytes     int64         `conf:"default:10485760"`
			FetchTimeout time.Duration `conf:"default:15s"`
			AccountSID   string
			AuthToken    string `conf:"mask"`
		}
		Scan struct {
			ProfilesPath string `conf:"default:zblock/profiles.yaml"`
		}
		Names struct {
			Path string `conf:"default:zblock/senders.yaml"`
		}
		Dedup struct {
			RedisURL string        `conf:"mask"`
			TTL      time.Duration `conf:"default:24h"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "Bio-Estate sample ledger",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "BIOESTATE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides display names for the phone numbers
	// submitting samples.
	ns, err := nameservice.New(cfg.Names.Path)
	if err != nil {
		return fmt.Errorf("unable to load sender name service: %w", err)
	}

	for sender, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "sender", sender)
	}

	// =========================================================================
	// Ledger Support

	lgr, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("unable to open ledger: %w", err)
	}
	defer lgr.Close()

	store, err := media.NewStore(cfg.Media.Dir, cfg.Media.MaxBytes)
	if err != nil {
		return fmt.Errorf("unable to create media store: %w", err)
	}

	fetcher := media.NewFetcher(media.FetcherConfig{
		Timeout:  cfg.Media.FetchTimeout,
		User:     cfg.Media.AccountSID,
		Password: cfg.Media.AuthToken,
	})

	profiles, err := scan.LoadProfiles(cfg.Scan.ProfilesPath)
	if err != nil {
		return fmt.Errorf("unable to load reference profiles: %w", err)
	}

	for _, p := range profiles.Hosts {
		log.Infow("startup", "status", "profile", "name", p.Name, "gc", p.GC)
	}

	// The scan core accepts a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	core := scan.NewCore(scan.Config{
		Ledger:    lgr,
		Store:     store,
		Fetcher:   fetcher,
		Profiles:  profiles,
		EvHandler: ev,
	})

	// =========================================================================
	// Redelivery Support

	var guard interface {
		Claim(ctx context.Context, key string) (bool, error)
		Close() error
	}

	switch cfg.Dedup.RedisURL {
	case "":
		log.Infow("startup", "status", "redelivery guard", "store", "memory")
		guard = dedup.NewMemory(cfg.Dedup.TTL)

	default:
		log.Infow("startup", "status", "redelivery guard", "store", "redis")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rg, err := dedup.NewRedis(ctx, cfg.Dedup.RedisURL, cfg.Dedup.TTL)
		if err != nil {
			return fmt.Errorf("unable to connect redelivery guard: %w", err)
		}
		guard = rg
	}
	defer guard.Close()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, lgr)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing V1 API support")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Construct the mux for the API calls.
	apiMux := handlers.APIMux(handlers.APIMuxConfig{
		Shutdown:   shutdown,
		Log:        log,
		Scan:       core,
		NS:         ns,
		Evts:       evts,
		Guard:      guard,
		MaxBytes:   cfg.Media.MaxBytes,
		CORSOrigin: cfg.Web.CORSOrigin,
	})

	// Construct a server to service the requests against the mux.
	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      apiMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
