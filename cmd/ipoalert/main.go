package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/classifier"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/config"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/engine"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/history"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/logger"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/sources"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/state"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/telegram"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/upcoming"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/volatility"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/watchlist"
)

var (
	configPath  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	checkIPO    = flag.Bool("ipo", false, "Run the IPO status check")
	checkVol    = flag.Bool("volatility", false, "Run the volatility check")
	checkUpcome = flag.Bool("upcoming", false, "Run the upcoming-IPO check")
	refresh     = flag.Bool("refresh", false, "Refresh the upcoming-IPO watchlist from discovery sources and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := sources.NewClient(sources.ClientConfig{
		Timeout:           cfg.Sources.Timeout,
		MaxRetries:        cfg.Sources.MaxRetries,
		RetryDelayBase:    cfg.Sources.RetryDelayBase,
		RequestsPerSecond: cfg.Sources.RequestsPerSecond,
	})
	yahoo := sources.NewYahooQuote(cfg.Sources.YahooBaseURL, client)
	nasdaq := sources.NewNasdaqCalendar(cfg.Sources.NasdaqBaseURL, client)

	if *refresh {
		runRefresh(ctx, cfg, client, nasdaq)
		return
	}

	store, err := state.NewStore(cfg.State.Dir)
	if err != nil {
		logger.Fatal("Failed to initialize state store: %v", err)
	}

	var recorder history.Recorder = history.NewNoopRecorder()
	if cfg.History.DBPath != "" {
		sr, err := history.NewSQLiteRecorder(cfg.History.DBPath)
		if err != nil {
			logger.Warn("Failed to open alert history, continuing without: %v", err)
		} else {
			recorder = sr
			defer func() {
				if err := sr.Close(); err != nil {
					logger.Error("Failed to close alert history: %v", err)
				}
			}()
		}
	}

	// No pipeline flag means run everything.
	all := !*checkIPO && !*checkVol && !*checkUpcome

	if *checkIPO || all {
		eng := engine.New(notifierFor(cfg, cfg.Telegram.IPO), recorder)
		cls := classifier.New(yahoo, nasdaq)
		runIPOCheck(ctx, cfg, cls, eng, store)
	}
	if *checkVol || all {
		eng := engine.New(notifierFor(cfg, cfg.Telegram.Volatility), recorder)
		runVolatilityCheck(ctx, cfg, yahoo, eng, store)
	}
	if *checkUpcome || all {
		eng := engine.New(notifierFor(cfg, cfg.Telegram.Upcoming), recorder)
		runUpcomingCheck(ctx, cfg, nasdaq, eng, store)
	}

	logger.Info("Run complete")
}

// notifierFor builds the Telegram client for one pipeline's bot. Credential
// problems here are configuration errors and abort the run.
func notifierFor(cfg *config.Config, bot config.BotConfig) engine.Notifier {
	if !cfg.Telegram.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil
	}
	client, err := telegram.NewClient(bot.BotToken, bot.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram client: %v", err)
	}
	return client
}

func runIPOCheck(ctx context.Context, cfg *config.Config, cls *classifier.Classifier, eng *engine.Engine, store *state.Store) {
	startTime := time.Now()
	logger.Info("Starting IPO status check")

	symbols, err := watchlist.ReadSymbols(cfg.Watchlists.IPOFile)
	if err != nil {
		logger.Error("Failed to read IPO watchlist: %v", err)
		return
	}
	if len(symbols) == 0 {
		logger.Info("IPO watchlist is empty, nothing to check")
		return
	}

	states := store.LoadIPO()
	alerts := 0
	for _, symbol := range symbols {
		info := cls.Classify(ctx, symbol)
		logger.Info("%s: status=%s company=%q", symbol, info.Status, info.CompanyName)
		if eng.DecideIPO(info, states) {
			alerts++
		}
	}

	if err := store.SaveIPO(states); err != nil {
		logger.Error("Failed to save IPO state: %v", err)
	}
	logger.Info("IPO check completed in %v (%d symbols, %d alerts)", time.Since(startTime), len(symbols), alerts)
}

func runVolatilityCheck(ctx context.Context, cfg *config.Config, quotes sources.Source, eng *engine.Engine, store *state.Store) {
	startTime := time.Now()
	logger.Info("Starting volatility check")

	symbols, err := watchlist.ReadSymbols(cfg.Watchlists.VolFile)
	if err != nil {
		logger.Error("Failed to read volatility watchlist: %v", err)
		return
	}
	if len(symbols) == 0 {
		logger.Info("Volatility watchlist is empty, nothing to check")
		return
	}

	eval := volatility.NewEvaluator(cfg.Monitor.VolatilityThresholdPercent)
	states := store.LoadVolatility()
	alerts := 0
	for _, symbol := range symbols {
		var prevPrice *float64
		if prev, ok := states[symbol]; ok {
			p := prev.Price
			prevPrice = &p
		}
		info := eval.Check(ctx, quotes, symbol, prevPrice)
		if info.ChangePercent != nil {
			logger.Info("%s: change=%+.2f%% movement=%s", symbol, *info.ChangePercent, info.Movement)
		}
		if eng.DecideVolatility(info, states) {
			alerts++
		}
	}

	if err := store.SaveVolatility(states); err != nil {
		logger.Error("Failed to save volatility state: %v", err)
	}
	logger.Info("Volatility check completed in %v (%d symbols, %d alerts)", time.Since(startTime), len(symbols), alerts)
}

func runUpcomingCheck(ctx context.Context, cfg *config.Config, nasdaq *sources.NasdaqCalendar, eng *engine.Engine, store *state.Store) {
	startTime := time.Now()
	logger.Info("Starting upcoming-IPO check")

	today := time.Now()
	if removed, err := watchlist.Cleanup(cfg.Watchlists.UpcomingFile, today, cfg.Monitor.MaxDaysAhead); err != nil {
		logger.Warn("Watchlist cleanup failed: %v", err)
	} else if removed > 0 {
		logger.Info("Removed %d stale entries from upcoming watchlist", removed)
	}

	entries, err := watchlist.ReadUpcoming(cfg.Watchlists.UpcomingFile)
	if err != nil {
		logger.Error("Failed to read upcoming watchlist: %v", err)
		return
	}
	if len(entries) == 0 {
		logger.Info("Upcoming watchlist is empty, nothing to check")
		return
	}

	// One calendar fetch supplements every entry; a failure here degrades to
	// manual watchlist data only.
	calendar, err := nasdaq.FetchAll(ctx)
	if err != nil {
		logger.Warn("Failed to fetch NASDAQ calendar: %v", err)
		calendar = map[string]sources.CalendarEntry{}
	}

	eval := upcoming.NewEvaluator(cfg.Monitor.AlertDaysBefore)
	states := store.LoadUpcoming()
	alerts := 0
	for _, entry := range entries {
		ipo := buildUpcoming(entry, calendar)
		prev := states[ipo.Symbol]
		ipo.DaysUntil, ipo.ShouldAlert = eval.Evaluate(ipo.ExpectedDate, today, prev.LastAlertDate)
		if ipo.DaysUntil != nil {
			logger.Info("%s: expected=%s days_until=%d alert=%v", ipo.Symbol, ipo.FormatDate(), *ipo.DaysUntil, ipo.ShouldAlert)
		} else {
			logger.Info("%s: expected date unknown", ipo.Symbol)
		}
		if eng.DecideUpcoming(ipo, today, states) {
			alerts++
		}
	}

	if err := store.SaveUpcoming(states); err != nil {
		logger.Error("Failed to save upcoming-IPO state: %v", err)
	}
	logger.Info("Upcoming-IPO check completed in %v (%d entries, %d alerts)", time.Since(startTime), len(entries), alerts)
}

// buildUpcoming combines a manual watchlist entry with the NASDAQ calendar,
// preferring manual data where provided.
func buildUpcoming(entry watchlist.Entry, calendar map[string]sources.CalendarEntry) models.UpcomingIPO {
	ipo := models.UpcomingIPO{
		Symbol:      entry.Symbol,
		CompanyName: entry.CompanyName,
		PriceRange:  entry.PriceRange,
		Source:      "manual",
	}
	dateStr := entry.ExpectedDate

	if cal, ok := calendar[entry.Symbol]; ok {
		if ipo.CompanyName == "" {
			ipo.CompanyName = cal.CompanyName
		}
		if ipo.PriceRange == "" {
			ipo.PriceRange = cal.PriceRange
		}
		ipo.Exchange = cal.Exchange
		ipo.Shares = cal.Shares
		if dateStr == "" {
			dateStr = cal.ExpectedDate
		}
		if entry.CompanyName == "" && entry.PriceRange == "" {
			ipo.Source = "nasdaq"
		}
	}

	if d, ok := upcoming.ParseDate(dateStr); ok {
		ipo.ExpectedDate = &d
	}
	return ipo
}

func runRefresh(ctx context.Context, cfg *config.Config, client *sources.Client, nasdaq *sources.NasdaqCalendar) {
	startTime := time.Now()
	logger.Info("Refreshing upcoming-IPO watchlist from discovery sources")

	discovery := []sources.DiscoverySource{
		nasdaq,
		sources.NewIPOScoop(cfg.Sources.IPOScoopBaseURL, client),
		sources.NewMarketWatch(cfg.Sources.MarketWatchBaseURL, client),
	}

	today := time.Now()
	ipos := upcoming.Discover(ctx, discovery, today, cfg.Monitor.MaxDaysAhead)

	if err := watchlist.WriteUpcoming(cfg.Watchlists.UpcomingFile, ipos,
		cfg.Monitor.MaxDaysAhead, cfg.Monitor.AlertDaysBefore, today); err != nil {
		logger.Error("Failed to write upcoming watchlist: %v", err)
		return
	}

	kept, err := watchlist.SyncIPOWatchlist(cfg.Watchlists.IPOFile, cfg.Watchlists.IPODatesFile,
		ipos, today, cfg.Monitor.DaysAfterIPOToKeep)
	if err != nil {
		logger.Error("Failed to sync IPO watchlist: %v", err)
		return
	}

	logger.Info("Refresh completed in %v (%d upcoming IPOs, %d tracked tickers)",
		time.Since(startTime), len(ipos), kept)
}
