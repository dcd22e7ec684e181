package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/relaybot/internal/bot"
	"github.com/edgard/relaybot/internal/bot/handlers"
	"github.com/edgard/relaybot/internal/bot/tasks"
	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/database"
	"github.com/edgard/relaybot/internal/forwarder"
	"github.com/edgard/relaybot/internal/logger"
	"github.com/edgard/relaybot/internal/registry"
	"github.com/edgard/relaybot/internal/telegram"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "relaybot",
		Short: "Telegram bot that relays messages from a source chat to registered groups",
		Long: `Relay bot copies messages posted in a source chat into registered destination groups.

Reply to a message in the source chat with /send <name>,<name> or /broadcast.
Manage destinations with /add, /remove and /list.

Required environment:
  BOT_TOKEN          Telegram bot token
  SOURCE_CHANNEL_ID  numeric id of the source chat`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), cfgFile)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml, optional)")
	cmd.AddCommand(newGroupsCmd())

	return cmd
}

// runBot initializes every component (config, logger, journal, bot, scheduler)
// and blocks until ctx is cancelled or a component fails.
func runBot(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)
	log.Info("Source chat configured", "source_chat_id", cfg.Telegram.SourceChatID)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return err
	}
	defer database.CloseDB(db)
	journal := database.NewStore(db, log)

	store := registry.NewStore(cfg.Registry.Path, log)

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, tgbot.WithMiddlewares(logger.Middleware(log)))
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return err
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return err
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	fwd := forwarder.New(tg, log, forwarder.Options{
		RatePerSecond: cfg.Forwarder.RatePerSecond,
		CopyTimeout:   cfg.Forwarder.CopyTimeout,
		Journal:       journal,
	})

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Registry:  store,
		Forwarder: fwd,
		Journal:   journal,
	}
	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return err
	}
	if err := telegram.SetCommands(ctx, tg, cfg.Telegram.SourceChatID, cmdHandlers); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	tDeps := tasks.TaskDeps{
		Logger:   log,
		Config:   cfg,
		Registry: store,
		Journal:  journal,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return fmt.Errorf("bot stopped: %w", runErr)
	}

	log.Info("Bot stopped gracefully.")
	return nil
}
