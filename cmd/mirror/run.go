package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vedran77/pulse-mirror/internal/config"
	"github.com/vedran77/pulse-mirror/internal/database"
	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/logging"
	"github.com/vedran77/pulse-mirror/internal/repository/file"
	"github.com/vedran77/pulse-mirror/internal/repository/memory"
	"github.com/vedran77/pulse-mirror/internal/repository/postgres"
	"github.com/vedran77/pulse-mirror/internal/rtm"
	"github.com/vedran77/pulse-mirror/internal/transport/http/server"
	"github.com/vedran77/pulse-mirror/internal/transport/kafka"
	"github.com/vedran77/pulse-mirror/internal/transport/nats"
	"github.com/vedran77/pulse-mirror/internal/transport/ws"
)

var configPath string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path (YAML)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the snapshot and apply live events until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if errs := cfg.Validate(); errs.HasErrors() {
			return errs
		}

		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runMirror(ctx, cfg, log)
	},
}

func runMirror(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	snap, err := loadSnapshot(ctx, cfg, log)
	if err != nil {
		return err
	}

	identity, err := resolveIdentity(cfg, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	session, err := rtm.NewSession(memory.NewStore(), snap, identity,
		rtm.WithLogger(log), rtm.WithMetrics(rtm.NewMetrics(reg)))
	if err != nil {
		return err
	}

	src := newSource(cfg, log)
	srv := server.New(server.Config{Addr: cfg.HTTP.Addr, JWTSecret: cfg.HTTP.JWTSecret}, session, reg, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return session.Run(gctx, src)
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return src.Close()
	})
	return g.Wait()
}

func loadSnapshot(ctx context.Context, cfg *config.Config, log *zap.Logger) (*domain.Snapshot, error) {
	switch cfg.Snapshot.Kind {
	case config.SnapshotPostgres:
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		log.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

		repo := postgres.NewSnapshotRepo(pool,
			uuid.MustParse(cfg.Snapshot.WorkspaceID),
			uuid.MustParse(cfg.Snapshot.UserID))
		return repo.Load(ctx)
	default:
		return file.NewSnapshotFile(cfg.Snapshot.File).Load(ctx)
	}
}

// resolveIdentity reads the active user from the source token when it is a
// JWT. Other tokens leave the identity to the snapshot. With a secret
// configured the token must verify.
func resolveIdentity(cfg *config.Config, log *zap.Logger) (rtm.Identity, error) {
	if cfg.Source.Token == "" {
		return rtm.Identity{}, nil
	}
	id, err := rtm.IdentityFromToken(cfg.Source.Token, cfg.Source.JWTSecret)
	if err == nil {
		return id, nil
	}
	if cfg.Source.JWTSecret != "" || errors.Is(err, rtm.ErrNoSubject) {
		return rtm.Identity{}, fmt.Errorf("source token: %w", err)
	}
	log.Debug("source token is not a JWT, using snapshot identity")
	return rtm.Identity{}, nil
}

func newSource(cfg *config.Config, log *zap.Logger) rtm.EventSource {
	switch cfg.Source.Kind {
	case config.SourceNATS:
		return nats.NewSource(cfg.Source.NATSURL, cfg.Source.NATSSubject, log)
	case config.SourceKafka:
		return kafka.NewSource(kafka.Config{
			Brokers: cfg.Source.KafkaBrokers,
			Topic:   cfg.Source.KafkaTopic,
			GroupID: cfg.Source.KafkaGroup,
		}, log)
	default:
		return ws.NewSource(cfg.Source.WSURL, cfg.Source.Token, log)
	}
}
