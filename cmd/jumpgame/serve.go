package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/jumpgame/internal/backend"
	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/platform/tui"
	"github.com/vovakirdan/jumpgame/internal/server"
	"github.com/vovakirdan/jumpgame/internal/web"
)

var (
	flagPort         int
	flagPublic       string
	flagEnvFile      string
	flagSSHAddr      string
	flagHostKey      string
	flagIdleTimeout  int
	flagRunnerConfig string
	flagVerbose      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the record server",
	Long: `Start the HTTP server that hands out image pairings and obstacle speeds
and keeps the best survival time. The browser client is served at /.

Port resolution (last wins):
  config file -> PORT from the environment or .env -> --port

With --ssh, the same process also serves the terminal game over SSH; every
SSH player shares the server's best record.

Examples:
  jumpgame serve                          # http://localhost:8000
  PORT=9000 jumpgame serve                # http://localhost:9000
  jumpgame serve --store sqlite --record ~/.jumpgame/records.db
  jumpgame serve --ssh :23234             # ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "HTTP port (overrides config and PORT)")
	serveCmd.Flags().StringVar(&flagPublic, "public", "", "Serve the browser client from this directory instead of the embedded one")
	serveCmd.Flags().StringVar(&flagEnvFile, "env", ".env", "Environment file to load before reading PORT")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "Also serve the terminal game over SSH at this address")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "SSH idle timeout in minutes")
	serveCmd.Flags().StringVar(&flagRunnerConfig, "runner-config", "", "Path to game config YAML for SSH play")
	serveCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every request")
}

func runServe(cmd *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "jumpgame",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	// .env only fills variables that are not already set
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fatalf("cannot load %s: %v", flagEnvFile, err)
	}

	cfg := loadServerConfig()
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		fatalf("%v", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}
	if flagPublic != "" {
		cfg.PublicDir = flagPublic
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}

	store := openStore(cfg)
	defer store.Close()

	local, err := backend.New(cfg, store, seed())
	if err != nil {
		fatalf("%v", err)
	}

	public := web.Public()
	if cfg.PublicDir != "" {
		dir, err := config.ExpandHome(cfg.PublicDir)
		if err != nil {
			fatalf("%v", err)
		}
		public = os.DirFS(dir)
	}

	srv := server.New(local.Selector, local.Generator, store,
		server.WithPublic(public),
		server.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	addr := fmt.Sprintf(":%d", cfg.Port)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, addr)
	})

	if flagSSHAddr != "" {
		rc, err := config.LoadRunner(flagRunnerConfig)
		if err != nil {
			fatalf("%v", err)
		}
		sshSrv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		}, rc, local, logger.WithPrefix("jumpgame-ssh"))
		if err != nil {
			fatalf("%v", err)
		}
		g.Go(func() error {
			return sshSrv.ListenAndServe(gctx)
		})
		fmt.Printf("SSH play on %s\n", sshSrv.Addr())
	}

	fmt.Printf("Jump Game listening on http://localhost:%d\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		fatalf("server error: %v", err)
	}
}
