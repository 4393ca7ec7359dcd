package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/timedorder/broker"
	"github.com/rustyeddy/timedorder/broker/sim"
	"github.com/rustyeddy/timedorder/config"
	"github.com/rustyeddy/timedorder/engine"
	"github.com/rustyeddy/timedorder/internal/feed"
	"github.com/rustyeddy/timedorder/internal/metrics"
	"github.com/rustyeddy/timedorder/journal"
	"github.com/rustyeddy/timedorder/market"
	"github.com/rustyeddy/timedorder/notify"
	"github.com/rustyeddy/timedorder/trigger"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Arm a timed order from a config file and wait for the trigger",
	Long: `Run a timed order against the paper venue using settings from a
configuration file.

The config file specifies the trigger time, order shape, sizing, retry
bounds and journaling. The run loop evaluates the trigger on every tick and
places the order once the time comes.

Example:
  timedorder run -f examples/configs/oneshot.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runBalance    float64
	runBid        float64
	runAsk        float64
	runInterval   time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().Float64Var(&runBalance, "balance", 10000, "paper account balance")
	runCmd.Flags().Float64Var(&runBid, "bid", 0, "initial paper bid (feed updates override)")
	runCmd.Flags().Float64Var(&runAsk, "ask", 0, "initial paper ask (feed updates override)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 100*time.Millisecond, "evaluation interval")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Local overrides (SMTP credentials and the like) come from .env when
	// present; a missing file is fine.
	godotenv.Load()

	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.New(os.Stderr, "timedorder ", log.LstdFlags)

	jrnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jrnl.Close()

	var alerter notify.Alerter = notify.LogAlerter{Log: logger}
	if cfg.Alerts.SMTPAddr != "" {
		alerter = notify.NewEmailAlerter(cfg.Alerts.SMTPAddr, cfg.Alerts.EmailFrom, cfg.Alerts.EmailTo, logger)
	}

	venue := sim.New(broker.Account{
		ID:       "PAPER",
		Currency: "USD",
		Balance:  runBalance,
		Equity:   runBalance,
	})
	if runBid > 0 && runAsk > 0 {
		venue.SetQuote(market.Quote{
			Instrument: cfg.Instrument,
			Bid:        runBid,
			Ask:        runAsk,
			Time:       time.Now(),
		})
	}

	eng, err := engine.New(cfg, venue, time.Now(), engine.Options{
		Alerter: alerter,
		Journal: jrnl,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	logger.Printf("armed, run %s", eng.RunID())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Listen); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}

	// The feed pushes quotes into the venue and triggers an immediate
	// evaluation; the ticker below still runs so a stalled feed cannot make
	// the trigger miss.
	if cfg.Feed.URL != "" {
		client := feed.NewClient(cfg.Feed.URL, func(q market.Quote) {
			venue.SetQuote(q)
			eng.Evaluate(ctx, time.Now(), q)
		}, logger)
		go client.Run(ctx)
	}

	ticker := time.NewTicker(runInterval)
	defer ticker.Stop()
	statusTicker := time.NewTicker(30 * time.Second)
	defer statusTicker.Stop()

	lastQuote := func() market.Quote {
		q, err := venue.GetQuote(ctx, cfg.Instrument)
		if err != nil {
			return market.Quote{Instrument: cfg.Instrument}
		}
		return q
	}

	fmt.Println(eng.Status(time.Now(), lastQuote()))

	for {
		select {
		case <-ctx.Done():
			fmt.Println(eng.Status(time.Now(), lastQuote()))
			return nil

		case <-statusTicker.C:
			fmt.Println(eng.Status(time.Now(), lastQuote()))

		case <-ticker.C:
			q, err := venue.GetQuote(ctx, cfg.Instrument)
			if err != nil {
				continue
			}
			eng.Evaluate(ctx, time.Now(), q)

			state := eng.State()
			if cfg.Trigger.Mode == trigger.OneShot &&
				(state == engine.Committed || state == engine.Failed) {
				fmt.Println(eng.Status(time.Now(), q))
				if state == engine.Failed {
					return fmt.Errorf("execution failed: %s", eng.Result())
				}
				return nil
			}
		}
	}
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
