package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalnet/bot74/internal/bot"
	"github.com/dalnet/bot74/internal/config"
	"github.com/dalnet/bot74/internal/irc"
	"github.com/dalnet/bot74/internal/logging"
	"github.com/dalnet/bot74/internal/modules"
	"github.com/dalnet/bot74/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version information - set at build time via ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

var (
	configPath string
	pidFile    string
	devLog     bool
)

func main() {
	bot.Version = version

	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bot74d",
		Short:        "IRC bot",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file (.yaml or .toml)")
	root.Flags().StringVar(&pidFile, "pidfile", "", "Write the process ID to this file")
	root.Flags().BoolVar(&devLog, "dev", false, "Human-readable log output")

	root.AddCommand(versionCmd(), adminCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bot74d version %s\n", version)
			fmt.Printf("Built: %s\n", buildDate)
			fmt.Printf("Commit: %s\n", gitCommit)
		},
	}
}

func adminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage the stored admin list",
	}

	admin.AddCommand(&cobra.Command{
		Use:   "add <nick!user@host>",
		Short: "Grant the Admin level to senders matching a mask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			mask, err := storage.ParseMask(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			added, err := storage.AddAdmin(cfg.DataDir, mask)
			if err != nil {
				return err
			}
			if !added {
				fmt.Printf("%s is already an admin mask\n", mask)
				return nil
			}
			fmt.Printf("Added admin mask %s\n", mask)
			return nil
		},
	})

	admin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured and stored admin masks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			for _, m := range cfg.Admins {
				fmt.Printf("%s (config)\n", m)
			}
			masks, err := storage.LoadAdmins(cfg.DataDir)
			if err != nil {
				return err
			}
			for _, m := range masks {
				fmt.Println(m)
			}
			return nil
		},
	})

	return admin
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func writePIDFile(path string) error {
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, devLog)
	if err != nil {
		return err
	}
	defer log.Sync()

	if pidFile != "" {
		if err := writePIDFile(pidFile); err != nil {
			log.Warn("could not write PID file", zap.Error(err))
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	admins, err := storage.NewAdmins(cfg.DataDir, cfg.Admins)
	if err != nil {
		return err
	}

	registry, err := bot.NewRegistry(modules.Default(), modules.Test())
	if err != nil {
		return err
	}

	state := bot.NewState(bot.Config{
		Nick:            cfg.Nick,
		Username:        cfg.Username,
		Realname:        cfg.Realname,
		AddresseeSuffix: cfg.Suffix(),
	}, registry, admins, func(err error) bot.ErrorReaction {
		log.Error("error while handling message", zap.Error(err))
		return bot.Proceed
	}, log)

	client, err := irc.NewClient(cfg, state, log)
	if err != nil {
		return fmt.Errorf("failed to create IRC client: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("connecting", zap.String("server", cfg.Server), zap.Int("port", cfg.Port))
	if err := client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	loopDone := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(loopDone)
		log.Info("connected, entering main loop")
		client.Loop()
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			log.Info("received shutdown signal")
			client.Quit("Received shutdown signal")
		case <-loopDone:
		}
		return nil
	})

	return g.Wait()
}
