package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launch-bot/config"
	"launch-bot/database"
	"launch-bot/formatter"
	"launch-bot/forum"
	"launch-bot/models"
	"launch-bot/pinlog"
	"launch-bot/publisher"
	"launch-bot/schedule"
	"launch-bot/unpinner"
	"launch-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Pass is one of the two independently triggered runs.
type Pass string

const (
	PassPost  Pass = "post"
	PassUnpin Pass = "unpin"
)

// passTimeout bounds a whole pass, including every Discord call.
const passTimeout = 5 * time.Minute

// Bot holds the collaborators shared by both passes.
type Bot struct {
	Session   *discordgo.Session
	Config    *models.Config
	Logger    *utils.Logger
	Forum     forum.Forum
	Formatter *formatter.Formatter
	PinLog    *pinlog.Log
	History   *database.History
}

// NewBot creates the Discord session, logger and stores for cfg.
func NewBot(cfg *models.Config) (*Bot, error) {
	dg, err := forum.NewSession(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}
	dg.UserAgent = cfg.Bot.UserAgent

	logger, err := utils.NewLogger(cfg.Storage.ErrorLog, dg, cfg.Bot.AdminChannelID)
	if err != nil {
		return nil, err
	}

	fm, err := formatter.New(cfg.Launches.Timezone, logger)
	if err != nil {
		logger.Close()
		return nil, err
	}

	b := &Bot{
		Session:   dg,
		Config:    cfg,
		Logger:    logger,
		Forum:     forum.NewDiscord(dg, cfg.Forum.GuildID, cfg.Forum.ChannelID),
		Formatter: fm,
		PinLog:    pinlog.New(cfg.Storage.PinLog),
	}

	if cfg.Storage.HistoryDB != "" {
		history, err := database.InitDB(cfg.Storage.HistoryDB)
		if err != nil {
			// History is an audit trail only; the passes run without it.
			logger.Warn("Bot", "InitDB", err.Error())
		} else {
			b.History = history
		}
	}
	return b, nil
}

// Close releases the history database and the error log.
func (b *Bot) Close() {
	if b.History != nil {
		if err := b.History.Close(); err != nil {
			log.Printf("Error closing history database: %v", err)
		}
	}
	if err := b.Logger.Close(); err != nil {
		log.Printf("Error closing error log: %v", err)
	}
}

// RunPost fetches upcoming launches and publishes the announcement.
func (b *Bot) RunPost(ctx context.Context) {
	var history publisher.History
	if b.History != nil {
		history = b.History
	}

	fetcher := schedule.NewFetcher(nil, b.Config.Launches, b.Config.Bot.UserAgent, b.Logger)
	pub := publisher.New(b.Forum, b.Formatter, b.PinLog, history, b.Logger, publisher.Options{
		TagID:          b.Config.Forum.TagID,
		PinSlots:       b.Config.Forum.PinSlots,
		HotLimit:       b.Config.Forum.HotLimit,
		CommentLimit:   b.Config.Forum.CommentLimit,
		FallbackNotice: b.Config.Forum.FallbackNotice,
	})

	launches := fetcher.FetchUpcoming(ctx, time.Now().UTC())
	pub.Publish(ctx, launches)
}

// RunUnpin unpins every post in the pin-log.
func (b *Bot) RunUnpin(ctx context.Context) {
	var history unpinner.History
	if b.History != nil {
		history = b.History
	}
	unpinner.New(b.Forum, b.PinLog, history, b.Logger).Reconcile(ctx)
}

// Run is the entry point of both binaries. It always returns normally so
// the process exits 0; failures end up in the logs.
func Run(pass Pass, args []string) {
	flags := config.Flags(string(pass))
	if err := flags.Parse(args); err != nil {
		log.Printf("Error parsing flags: %v", err)
		return
	}

	cfg, err := config.LoadConfig(flags)
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return
	}

	b, err := NewBot(cfg)
	if err != nil {
		log.Printf("Error initializing bot: %v", err)
		return
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	b.Logger.Info("Bot", "Run", fmt.Sprintf("Starting %s pass", pass))
	switch pass {
	case PassPost:
		b.RunPost(ctx)
	case PassUnpin:
		b.RunUnpin(ctx)
	default:
		b.Logger.Error("Bot", "Run", fmt.Sprintf("unknown pass %q", pass))
		return
	}
	b.Logger.Info("Bot", "Run", fmt.Sprintf("Finished %s pass", pass))
}
