package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/apache/royale-compiler-sub012/internal/service"
	"github.com/apache/royale-compiler-sub012/internal/store"
	coregrpc "github.com/apache/royale-compiler-sub012/pkg/core/grpc"
	"github.com/apache/royale-compiler-sub012/pkg/core/health"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
	"github.com/apache/royale-compiler-sub012/pkg/core/version"
)

var (
	serveHost    string
	servePort    int
	serveHistory bool
	serveHealth  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the parse service over gRPC",
	Long: `Starts the gRPC parse service with the methods
/asfront.v1.FrontEnd/Parse and /asfront.v1.FrontEnd/Tokenize.

Requests and responses are google.protobuf.Struct messages. With --history
every parse is recorded in the parse history database. The standard
grpc.health.v1.Health service reports the result of periodic self checks.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from project file)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from project file)")
	serveCmd.Flags().BoolVar(&serveHistory, "history", false, "record every parse in the history database")
	serveCmd.Flags().DurationVar(&serveHealth, "health-interval", 15*time.Second, "interval between health checks")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := coregrpc.DefaultServerConfig()
	cfg.Host = projectConfig.Server.Host
	cfg.Port = projectConfig.Server.Port
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	cfg.Logger = logger

	var history *store.History
	if serveHistory {
		var err error
		history, err = store.Open(store.Config{Path: projectConfig.Store.Path, Logger: logger})
		if err != nil {
			return err
		}
		defer history.Close()
	}

	svc := service.New(service.Config{
		Parser:  projectConfig.ParserOptions(logger),
		History: history,
		Logger:  logger,
	})
	server := coregrpc.NewServer(cfg)
	service.Register(server.GRPCServer(), service.NewServer(svc))

	registry := health.NewRegistry("parse-service", version.Service)
	svc.RegisterHealth(registry)
	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(server.GRPCServer(), healthServer)
	publisher := health.NewPublisher(registry, healthServer, serveHealth, logger, service.ServiceName)

	healthCtx, stopHealth := context.WithCancel(cmd.Context())
	defer stopHealth()
	go publisher.Run(healthCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("Shutdown signal received, stopping server...")
	case <-cmd.Context().Done():
	}

	stopHealth()
	ctx, cancel := context.WithTimeout(context.Background(), projectConfig.Server.ShutdownTimeout.Duration)
	defer cancel()
	server.StopWithTimeout(ctx)
	logger.Info("Server stopped", aslog.Fields{"address": server.Address()})
	return nil
}
