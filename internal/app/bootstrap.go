package app

import (
	"log/slog"
	"time"

	"stock_go/internal/infra"
	"stock_go/internal/infra/mirror"
	"stock_go/internal/infra/storage"
	"stock_go/internal/infra/webhook"
	"stock_go/internal/ledger"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	Store     *ledger.Store
	Journal   *storage.Journal
	Mirror    *mirror.Mirror
	Forwarder *webhook.Forwarder
	Metrics   *infra.Metrics
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, wires logging and builds every adapter. The
// journal is optional: a failure there degrades the service, not kills it.
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping stock_go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	b.Metrics = &infra.Metrics{}

	// 3. Ledger store (loads the persisted document, empty on any trouble)
	b.Store = ledger.NewStore(cfg.Ledger.Path, time.Now)
	slog.Info("✅ Ledger loaded", slog.Int("stocks", b.Store.Len()), slog.String("path", cfg.Ledger.Path))

	// 4. Trade journal
	journal, err := storage.NewJournal(cfg.Journal.Path)
	if err != nil {
		slog.Warn("Trade journal unavailable", slog.Any("error", err))
	} else {
		b.Journal = journal
		slog.Info("✅ Trade journal ready", slog.String("path", cfg.Journal.Path))
	}

	// 5. Ledger mirror
	b.Mirror = mirror.New(cfg.Mirror.Remote, cfg.Mirror.Ref, cfg.Mirror.Token, cfg.Ledger.Path, b.Metrics)
	if b.Mirror.Enabled() {
		slog.Info("✅ Ledger mirror enabled", slog.String("ref", cfg.Mirror.Ref))
	} else {
		slog.Info("Ledger mirror disabled (remote or token missing)")
	}

	// 6. Report forwarder
	b.Forwarder = webhook.New(cfg.Report.WebhookURL, cfg.Report.Mention)
	if cfg.Report.WebhookURL == "" {
		slog.Info("Report webhook not configured")
	}

	return nil
}
