package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/liquidity-forecast/internal/config"
	"github.com/iwvelando/liquidity-forecast/internal/ledger"
	"github.com/iwvelando/liquidity-forecast/internal/logger"
	"github.com/iwvelando/liquidity-forecast/pkg/adapters"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/output"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, yaml")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	log, err := logger.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		log.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		log.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	input, err := adapters.PlanFileToForecastInput(conf.Plan)
	if err != nil {
		log.Fatal("invalid plan file",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Resolve the IST prefix the same way a ledger sync would.
	periods, err := finance.GeneratePeriods(input.Plan.StartDate, input.Plan.PeriodType, input.Plan.PeriodCount, 0)
	if err != nil {
		log.Fatal("invalid plan periods",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	aggregator := ledger.NewStatic(input.Plan.IstPeriodCount, input.Ist)
	ist, err := aggregator.Aggregate(context.Background(), ledger.NewRequest(conf.Plan.CaseID, input.Plan.PeriodType, periods))
	if err != nil {
		log.Fatal("inconsistent IST totals",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	input.Plan.IstPeriodCount = ist.IstPeriodCount
	if input.IstCutoffOverride != nil && *input.IstCutoffOverride < input.Plan.IstPeriodCount {
		input.Plan.IstPeriodCount = *input.IstCutoffOverride
	}

	result, err := finance.NewForecastEngine(log).Calculate(input.Plan, input.Assumptions, ist.Periods)
	if err != nil {
		log.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, result)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, result)
	case constants.OutputFormatYAML:
		err = output.YAMLFormat(os.Stdout, result)
	}
	if err != nil {
		log.Fatal("failed to write forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
