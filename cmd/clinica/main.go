package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinica/prontuario-client/internal/config"
	"github.com/clinica/prontuario-client/internal/controller"
	"github.com/clinica/prontuario-client/internal/dispatch"
	"github.com/clinica/prontuario-client/internal/gateway"
	"github.com/clinica/prontuario-client/internal/remote"
	"github.com/clinica/prontuario-client/internal/session"
	"github.com/clinica/prontuario-client/internal/store"
	"github.com/clinica/prontuario-client/pkg/logger"
	"github.com/clinica/prontuario-client/pkg/metrics"
	"github.com/clinica/prontuario-client/pkg/storage"
)

// app bundles the wired core for the commands.
type app struct {
	cfg  *config.Config
	log  *logger.Logger
	ctrl *controller.Controller
}

func newApp() (*app, error) {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logger.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: "15:04:05",
		Output:     os.Stderr,
	})

	m := metrics.New("clinica", prometheus.DefaultRegisterer)
	client := remote.NewClient(cfg.API, log, m)
	slot := storage.NewSlot(cfg.Session.File)
	sessions := session.NewStore(slot, client, log)
	pacientes := store.NewPacientes()
	dispatcher := dispatch.NewDispatcher(log, m)
	ctrl := controller.New(sessions, pacientes, dispatcher, client, log)

	return &app{cfg: cfg, log: log, ctrl: ctrl}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinica",
		Short:         "Terminal client for the clinic's patient records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(registerAssistenteCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(pacientesCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local bridge for the browser UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			srv := gateway.NewServer(a.cfg.Gateway, a.ctrl, a.log)
			a.log.Info("bridge listening", "port", a.cfg.Gateway.Port)
			return srv.Run()
		},
	}
}
