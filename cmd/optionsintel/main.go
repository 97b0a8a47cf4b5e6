package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/app"
	"github.com/ternarybob/optionsintel/internal/common"
	"github.com/ternarybob/optionsintel/internal/models"
)

const usage = `Usage: optionsintel [flags] <command>

Commands:
  query <SYMBOL> [SYMBOL...]   Multi-source intelligence report (JSON)
  stats                        Cache and router statistics
  cleanup                      One-shot expired cache sweep
  serve                        Run the scheduled cleanup daemon

Flags:
`

var (
	configFile  = flag.String("config", "", "Configuration file path")
	showVersion = flag.Bool("version", false, "Print version information")

	queryContext = flag.String("context", "", "Free-text query context for web research")
	strategyType = flag.String("strategy", "", "Strategy type filter for pattern matching")
	dte          = flag.Int("dte", 0, "Days to expiration for pattern matching")
	delta        = flag.Float64("delta", 0, "Option delta for pattern matching")
	noRAG        = flag.Bool("no-rag", false, "Skip the internal pattern store")
	noExternal   = flag.Bool("no-external", false, "Skip cached external intelligence")
	noTavily     = flag.Bool("no-tavily", false, "Skip web research")
	forceRefresh = flag.Bool("force-refresh", false, "Bypass cached intelligence rows")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("OptionsIntel version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	config, err := common.LoadFromFile(*configFile)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "query":
		err = runQuery(ctx, application, args[1:])
	case "stats":
		err = runStats(ctx, application)
	case "cleanup":
		err = runCleanup(ctx, application)
	case "serve":
		err = runServe(ctx, application, logger)
	default:
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error().Err(err).Str("command", args[0]).Msg("Command failed")
		os.Exit(1)
	}
}

func runQuery(ctx context.Context, application *app.App, symbols []string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("query requires at least one symbol")
	}

	queries := make([]models.MultiSourceQuery, 0, len(symbols))
	for _, symbol := range symbols {
		queries = append(queries, models.MultiSourceQuery{
			Symbol:             strings.ToUpper(symbol),
			Context:            *queryContext,
			IncludeInternalRAG: !*noRAG,
			IncludeExternal:    !*noExternal,
			IncludeTavily:      !*noTavily,
			ForceRefresh:       *forceRefresh,
			StrategyType:       *strategyType,
			DTE:                *dte,
			Delta:              *delta,
		})
	}

	if len(queries) == 1 {
		result, err := application.Orchestrator.QueryMultiSource(ctx, queries[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	}

	results, err := application.Orchestrator.BatchQueryMultiSource(ctx, queries)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func runStats(ctx context.Context, application *app.App) error {
	return printJSON(map[string]any{
		"cache":  application.CacheService.Stats(ctx),
		"router": application.Router.Stats(),
	})
}

func runCleanup(ctx context.Context, application *app.App) error {
	removed, err := application.CacheService.Cleanup(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d expired cache entries\n", removed)
	return nil
}

func runServe(ctx context.Context, application *app.App, logger arbor.ILogger) error {
	if err := application.StartCleanupScheduler(); err != nil {
		return err
	}

	logger.Info().Msg("Cleanup daemon running - Press Ctrl+C to stop")
	<-ctx.Done()

	logger.Info().Msg("Shutting down")
	// Give the in-flight cleanup run a moment before Close stops the cron
	time.Sleep(100 * time.Millisecond)
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
