// Package main runs the transfer monitor: block polling, anomaly scoring,
// persistence and alert dispatch, plus the read API and metrics endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/stablewatchers/transferwatch-backend/internal/alerts"
	"github.com/stablewatchers/transferwatch-backend/internal/basescan"
	"github.com/stablewatchers/transferwatch-backend/internal/dedup"
	"github.com/stablewatchers/transferwatch-backend/internal/detector"
	"github.com/stablewatchers/transferwatch-backend/internal/ethereum"
	"github.com/stablewatchers/transferwatch-backend/internal/metrics"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"github.com/stablewatchers/transferwatch-backend/internal/repository/clickhouse"
	"github.com/stablewatchers/transferwatch-backend/internal/service"
	"github.com/stablewatchers/transferwatch-backend/internal/transport"
	"github.com/stablewatchers/transferwatch-backend/pkg/batcher"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	RPCURL        string        `long:"rpc-url" env:"MONITOR_RPC_URL" description:"EVM node JSON-RPC URL" default:"https://mainnet.base.org"`
	Network       string        `long:"network" env:"MONITOR_NETWORK" description:"network label for metrics" default:"base"`
	TokenContract string        `long:"token-contract" env:"MONITOR_TOKEN_CONTRACT" description:"ERC-20 token contract address" required:"true"`
	TokenDecimals int           `long:"token-decimals" env:"MONITOR_TOKEN_DECIMALS" description:"token decimal count" default:"6"`
	WatchAddrs    []string      `long:"watch-addr" env:"MONITOR_WATCH_ADDRS" env-delim:"," description:"optional from/to address filter"`
	PollInterval  time.Duration `long:"poll-interval" env:"MONITOR_POLL_INTERVAL" description:"delay between ticks" default:"12s"`

	ClickhouseDSN string `long:"clickhouse-dsn" env:"MONITOR_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	DedupCapacity int    `long:"dedup-capacity" env:"MONITOR_DEDUP_CAPACITY" description:"seen-hash window size" default:"100000"`
	WarmupLimit   uint64 `long:"warmup-limit" env:"MONITOR_WARMUP_LIMIT" description:"hashes to preload into the dedup window" default:"100000"`

	FlushSize     int           `long:"flush-size" env:"MONITOR_FLUSH_SIZE" description:"transfer insert batch size" default:"100"`
	FlushInterval time.Duration `long:"flush-interval" env:"MONITOR_FLUSH_INTERVAL" description:"transfer insert flush interval" default:"5s"`
	FlushRPS      int           `long:"flush-rps" env:"MONITOR_FLUSH_RPS" description:"max insert batches per second" default:"10"`

	DetectorWindow     int     `long:"detector-window" env:"MONITOR_DETECTOR_WINDOW" description:"rolling history length" default:"100"`
	DeviationThreshold float64 `long:"deviation-threshold" env:"MONITOR_DEVIATION_THRESHOLD" description:"z-score mapped to full statistical score" default:"3"`
	TrainFromHistory   uint64  `long:"train-from-history" env:"MONITOR_TRAIN_FROM_HISTORY" description:"fit the outlier model on this many stored records at startup (0 disables)"`

	TargetAmount     float64 `long:"target-amount" env:"MONITOR_TARGET_AMOUNT" description:"amount the target rule watches for" default:"100"`
	TargetTolerance  float64 `long:"target-tolerance" env:"MONITOR_TARGET_TOLERANCE" description:"target rule tolerance" default:"0.01"`
	AnomalyThreshold float64 `long:"anomaly-threshold" env:"MONITOR_ANOMALY_THRESHOLD" description:"pattern score flag threshold" default:"0.85"`
	LargeAmount      float64 `long:"large-amount" env:"MONITOR_LARGE_AMOUNT" description:"large transfer rule threshold" default:"10000"`

	BasescanAPIKey string `long:"basescan-api-key" env:"MONITOR_BASESCAN_API_KEY" description:"explorer API key for gas enrichment (empty disables)"`
	BasescanRPS    int    `long:"basescan-rps" env:"MONITOR_BASESCAN_RPS" description:"explorer API rate limit" default:"5"`

	TelegramToken  string   `long:"telegram-token" env:"MONITOR_TELEGRAM_TOKEN" description:"telegram bot token"`
	TelegramChatID string   `long:"telegram-chat-id" env:"MONITOR_TELEGRAM_CHAT_ID" description:"telegram chat id"`
	DiscordWebhook string   `long:"discord-webhook" env:"MONITOR_DISCORD_WEBHOOK" description:"discord webhook url"`
	WebhookURL     string   `long:"webhook-url" env:"MONITOR_WEBHOOK_URL" description:"generic webhook url"`
	WebhookSecret  string   `long:"webhook-secret" env:"MONITOR_WEBHOOK_SECRET" description:"generic webhook shared secret"`
	SMTPHost       string   `long:"smtp-host" env:"MONITOR_SMTP_HOST" description:"smtp host"`
	SMTPPort       int      `long:"smtp-port" env:"MONITOR_SMTP_PORT" description:"smtp port" default:"587"`
	SMTPFrom       string   `long:"smtp-from" env:"MONITOR_SMTP_FROM" description:"alert sender address"`
	SMTPPassword   string   `long:"smtp-password" env:"MONITOR_SMTP_PASSWORD" description:"smtp password"`
	SMTPTo         []string `long:"smtp-to" env:"MONITOR_SMTP_TO" env-delim:"," description:"alert recipients"`
	KafkaBrokers   []string `long:"kafka-broker" env:"MONITOR_KAFKA_BROKERS" env-delim:"," description:"kafka broker list"`
	KafkaTopic     string   `long:"kafka-topic" env:"MONITOR_KAFKA_TOPIC" description:"kafka alert topic" default:"transferwatch.alerts"`

	HTTPAddr string `long:"http-addr" env:"MONITOR_HTTP_ADDR" description:"address for the API and metrics server" default:":8080"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("monitor failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	var repo *clickhouse.Repository
	if cfg.ClickhouseDSN != "" {
		var err error
		repo, err = clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewRepository())
		if err != nil {
			return fmt.Errorf("init repository: %w", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logger.Error("close repository", zap.Error(err))
			}
		}()
	} else {
		logger.Warn("no clickhouse dsn configured, transfers and alerts will not be persisted")
	}

	rpc := ethereum.NewRPCClient(cfg.RPCURL, metrics.NewRPCClient(cfg.Network))
	fetcher, err := ethereum.NewFetcher(rpc, cfg.TokenContract, cfg.TokenDecimals, cfg.WatchAddrs, logger.Named("fetcher"))
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	tracker := dedup.NewTracker(cfg.DedupCapacity)
	if repo != nil && cfg.WarmupLimit > 0 {
		hashes, err := repo.SeenTransactionHashes(ctx, cfg.WarmupLimit)
		if err != nil {
			logger.Warn("dedup warmup query failed, starting with an empty window", zap.Error(err))
		} else {
			for _, h := range hashes {
				tracker.Mark(h)
			}
			logger.Info("dedup window warmed", zap.Int("hashes", tracker.Len()))
		}
	}

	det := detector.New(detector.Config{
		Window:             cfg.DetectorWindow,
		DeviationThreshold: cfg.DeviationThreshold,
	}, logger.Named("detector"))
	if repo != nil && cfg.TrainFromHistory > 0 {
		records, err := repo.RecentTransactions(ctx, cfg.TrainFromHistory)
		if err != nil {
			logger.Warn("loading training history failed, running heuristics only", zap.Error(err))
		} else if err := det.Train(records); err != nil {
			logger.Warn("outlier model training failed, running heuristics only", zap.Error(err))
		}
	}

	var enricher service.Enricher
	if cfg.BasescanAPIKey != "" {
		client, err := basescan.NewClient("", cfg.BasescanAPIKey, cfg.BasescanRPS, metrics.NewEnrichment())
		if err != nil {
			return fmt.Errorf("init basescan client: %w", err)
		}
		enricher = client
	}

	channels, closeChannels, err := buildChannels(cfg, logger)
	if err != nil {
		return err
	}
	defer closeChannels()
	logger.Info("alert channels enabled", zap.Strings("channels", channelNames(channels)))

	var alertStore alerts.AlertStore
	if repo != nil {
		alertStore = repo
	}
	router := alerts.NewRouter(alerts.RouterConfig{
		TargetAmount:     cfg.TargetAmount,
		TargetTolerance:  cfg.TargetTolerance,
		AnomalyThreshold: cfg.AnomalyThreshold,
		LargeAmount:      cfg.LargeAmount,
	}, channels, alertStore, metrics.NewAlertRouter(), logger.Named("alerts"))

	sink, stopSink := newSink(ctx, cfg, repo, logger)
	defer stopSink()

	monitor, err := service.NewMonitor(
		service.MonitorConfig{
			PollInterval:     cfg.PollInterval,
			AnomalyThreshold: cfg.AnomalyThreshold,
			TargetAmount:     cfg.TargetAmount,
			TargetTolerance:  cfg.TargetTolerance,
		},
		rpc,
		fetcher,
		tracker,
		det,
		enricher,
		sink,
		router,
		metrics.NewMonitor(),
		logger.Named("monitor"),
	)
	if err != nil {
		return fmt.Errorf("init monitor: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return monitor.Run(gctx)
	})
	g.Go(func() error {
		return runHTTPServer(gctx, cfg.HTTPAddr, repo, monitor, logger)
	})
	return g.Wait()
}

// newSink returns the monitor's persistence sink. With a repository the sink
// is a batcher flushing into InsertTransactions; without one records are
// dropped.
func newSink(ctx context.Context, cfg config, repo *clickhouse.Repository, logger *zap.Logger) (service.TransactionSink, func()) {
	if repo == nil {
		return discardSink{}, func() {}
	}

	b := batcher.New(logger.Named("batcher"), repo.InsertTransactions, cfg.FlushSize, cfg.FlushInterval, cfg.FlushRPS)
	b.Start(ctx)
	return b, b.Stop
}

type discardSink struct{}

func (discardSink) Add(context.Context, model.TransactionRecord) error { return nil }

func buildChannels(cfg config, logger *zap.Logger) ([]alerts.Channel, func(), error) {
	var (
		channels []alerts.Channel
		closers  []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Error("close alert channel", zap.Error(err))
			}
		}
	}

	if cfg.TelegramToken != "" {
		ch, err := alerts.NewTelegramChannel(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, closeAll, fmt.Errorf("init telegram channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if cfg.DiscordWebhook != "" {
		ch, err := alerts.NewDiscordChannel(cfg.DiscordWebhook)
		if err != nil {
			return nil, closeAll, fmt.Errorf("init discord channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if cfg.WebhookURL != "" {
		ch, err := alerts.NewWebhookChannel(cfg.WebhookURL, cfg.WebhookSecret)
		if err != nil {
			return nil, closeAll, fmt.Errorf("init webhook channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if cfg.SMTPHost != "" {
		ch, err := alerts.NewEmailChannel(alerts.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Password: cfg.SMTPPassword,
			To:       cfg.SMTPTo,
		})
		if err != nil {
			return nil, closeAll, fmt.Errorf("init email channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if len(cfg.KafkaBrokers) > 0 {
		ch, err := alerts.NewKafkaChannel(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			return nil, closeAll, fmt.Errorf("init kafka channel: %w", err)
		}
		channels = append(channels, ch)
		closers = append(closers, ch.Close)
	}

	return channels, closeAll, nil
}

func channelNames(channels []alerts.Channel) []string {
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	return names
}

// monitorStatus adapts the monitor's typed state for the HTTP health
// endpoint.
type monitorStatus struct {
	m *service.Monitor
}

func (s monitorStatus) State() string     { return s.m.State().String() }
func (s monitorStatus) LastBlock() uint64 { return s.m.LastBlock() }

func runHTTPServer(ctx context.Context, addr string, repo *clickhouse.Repository, monitor *service.Monitor, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if repo != nil {
		handler := transport.NewHandler(repo, monitorStatus{m: monitor}, logger.Named("transport"))
		handler.Register(mux)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("starting http server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
