package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/common"
	"frizo/risk_engine/internal/config"
	"frizo/risk_engine/internal/idmap"
	"frizo/risk_engine/internal/instrument"
	"frizo/risk_engine/internal/logger"
	"frizo/risk_engine/internal/margin"
	"frizo/risk_engine/internal/position"
	"frizo/risk_engine/internal/schedule"
	"frizo/risk_engine/internal/sizing"
	"frizo/risk_engine/internal/version"
)

func main() {
	// Command line flags
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		healthCheck = flag.Bool("health-check", false, "Perform health check")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if *showHelp {
		fmt.Printf("Risk Engine %s\n\n", version.Short())
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *healthCheck {
		fmt.Println("OK")
		os.Exit(0)
	}

	// Load configuration
	cfg := config.Load()

	// Override log level from command line
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	logger.SetDefault(log)

	log.Info("Starting Risk Engine",
		"version", version.Short(),
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
	)

	if err := run(cfg, log); err != nil {
		log.Error("Application error", "error", err)
		os.Exit(1)
	}

	log.Info("Risk Engine done")
}

// run loads the instrument universe and walks one margin/sizing pass so
// the engine's wiring can be exercised against real data files.
func run(cfg *config.Config, log *logger.Logger) error {
	manifest, err := config.LoadInstruments(cfg.InstrumentsFile)
	if err != nil {
		return err
	}
	if len(manifest) == 0 {
		log.Warn("no instruments configured", "manifest", cfg.InstrumentsFile)
		return nil
	}

	instruments := make([]*instrument.Instrument, 0, len(manifest))
	for _, entry := range manifest {
		table := schedule.Load(schedule.FilePath(cfg.DataDir, entry.Market, entry.Symbol))

		multiplier, err := decimal.NewFromString(entry.Multiplier)
		if err != nil {
			return fmt.Errorf("instrument %s: bad multiplier: %w", entry.Symbol, err)
		}
		lotSize, err := decimal.NewFromString(entry.LotSize)
		if err != nil {
			return fmt.Errorf("instrument %s: bad lot size: %w", entry.Symbol, err)
		}

		inst, err := instrument.New(entry.Symbol, entry.Symbol, entry.Market,
			common.ParseSecurityType(entry.SecurityType), multiplier, lotSize,
			entry.QuoteCurrency, table)
		if err != nil {
			return err
		}
		instruments = append(instruments, inst)

		log.Info("instrument loaded",
			"symbol", inst.Symbol,
			"market", inst.Market,
			"type", inst.SecurityType.String(),
			"schedule_entries", table.Len(),
		)
	}

	book := position.NewManager(instruments)
	account := margin.NewAccount("USD")
	if err := account.Deposit("USD", decimal.NewFromInt(1_000_000)); err != nil {
		return err
	}

	figis := idmap.NewCache(idmap.FilePath(cfg.DataDir, instruments[0].Market))

	for _, inst := range instruments {
		pos := book.Get(inst.Symbol)
		model := margin.ForInstrument(inst)
		buyingPower := margin.NewBuyingPowerModel(model)
		solver := sizing.NewSolver(buyingPower, sizing.FlatFeeModel{Amount: decimal.NewFromInt(2)})

		// no live feed here; mark at an arbitrary reference price
		book.MarkPrice(inst.Symbol, decimal.NewFromInt(100), time.Now())

		req := sizing.NewRequest(decimal.NewFromFloat(0.5), pos, account)
		order, err := solver.MaxOrderQuantity(req)
		if err != nil {
			return err
		}

		figi, _ := figis.Lookup(inst.SecurityID)
		log.Info("sizing pass",
			"symbol", inst.Symbol,
			"figi", figi,
			"initial_margin_requirement", model.InitialMarginRequirement(pos).String(),
			"leverage", model.Leverage(pos).String(),
			"buying_power", buyingPower.BuyingPower(account, pos, position.Long).String(),
			"order_id", order.ID,
			"order_quantity", order.Quantity.String(),
			"sufficient", solver.HasSufficientBuyingPower(req, order),
		)
	}

	return nil
}
