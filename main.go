// ABOUTME: Entry point for the POC portal analytics CLI, TUI and MCP server
// ABOUTME: Loads configuration and routes to data, analytics, filter, sync and server commands
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/charm"
	"github.com/sabixx/poc-portal-sub001/cli"
	"github.com/sabixx/poc-portal-sub001/config"
	"github.com/sabixx/poc-portal-sub001/db"
	"github.com/sabixx/poc-portal-sub001/tui"
)

const version = "0.2.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file (default: ~/.config/pocportal/config.json)")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/pocportal/pocportal.db)")
	asOfFlag := flag.String("as-of", "", "Evaluate lifecycle states as of this date (YYYY-MM-DD, default: today)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	// Parse global flags; the rest belongs to subcommands
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("pocportal version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	setLogLevel(cfg.LogLevel, *debug)

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "data":
		runData(cfg, commandArgs)

	case "analytics":
		runAnalytics(cfg, *asOfFlag, commandArgs)

	case "filters":
		runFilters(cfg, *asOfFlag, commandArgs)

	case "sync":
		runSync(cfg, commandArgs)

	case "config":
		runConfig(cfg, *configPath, commandArgs)

	case "mcp":
		withDashboard(cfg, *asOfFlag, func(dash *analytics.Dashboard) error {
			return cli.MCPCommand(dash, version)
		})

	case "tui":
		withDashboard(cfg, *asOfFlag, tui.Run)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func setLogLevel(level string, debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func openDatabase(cfg *config.Config) *sql.DB {
	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	log.Debug("database opened", "path", cfg.DBPath)
	return database
}

// withDashboard builds the dashboard from the database and persisted filters,
// hands it to fn and exits non-zero when fn fails.
func withDashboard(cfg *config.Config, asOfValue string, fn func(*analytics.Dashboard) error) {
	if err := runWithDashboard(cfg, asOfValue, fn); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runWithDashboard(cfg *config.Config, asOfValue string, fn func(*analytics.Dashboard) error) error {
	asOf, err := cli.ParseAsOf(asOfValue)
	if err != nil {
		return err
	}

	database := openDatabase(cfg)
	defer database.Close()

	persister, closePersister, err := cli.OpenFilterPersister(cfg)
	if err != nil {
		return err
	}
	defer closePersister()

	dash, err := cli.BuildDashboard(context.Background(), database, asOf, persister)
	if err != nil {
		return err
	}
	defer dash.Close()

	log.Debug("dashboard ready", "as_of", asOf.Format("2006-01-02"), "pocs", dash.Current().Summary.TotalCount)
	return fn(dash)
}

func requireSubcommand(name string, args []string) (string, []string) {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n\n", name)
		printUsage()
		os.Exit(1)
	}
	return args[0], args[1:]
}

func unknownSubcommand(name, sub string) {
	fmt.Printf("Unknown %s command: %s\n\n", name, sub)
	printUsage()
	os.Exit(1)
}

func runData(cfg *config.Config, args []string) {
	sub, subArgs := requireSubcommand("data", args)

	database := openDatabase(cfg)
	defer database.Close()

	var err error
	switch sub {
	case "import":
		err = cli.ImportCommand(database, subArgs)
	case "seed":
		err = cli.SeedCommand(database, subArgs)
	case "list-pocs":
		err = cli.ListPOCsCommand(database, subArgs)
	case "status":
		err = cli.StatusCommand(database, subArgs)
	default:
		unknownSubcommand("data", sub)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runAnalytics(cfg *config.Config, asOf string, args []string) {
	sub, subArgs := requireSubcommand("analytics", args)

	commands := map[string]func(*analytics.Dashboard, []string) error{
		"summary":   cli.SummaryCommand,
		"top":       cli.TopCommand,
		"drilldown": cli.DrillDownCommand,
		"dashboard": cli.DashboardCommand,
		"graph":     cli.GraphCommand,
	}
	cmd, ok := commands[sub]
	if !ok {
		unknownSubcommand("analytics", sub)
	}
	withDashboard(cfg, asOf, func(dash *analytics.Dashboard) error {
		return cmd(dash, subArgs)
	})
}

func runFilters(cfg *config.Config, asOf string, args []string) {
	sub, subArgs := requireSubcommand("filters", args)

	commands := map[string]func(*analytics.Dashboard, []string) error{
		"show":        cli.FiltersShowCommand,
		"set":         cli.FiltersSetCommand,
		"reset":       cli.FiltersResetCommand,
		"save-view":   cli.SaveViewCommand,
		"apply-view":  cli.ApplyViewCommand,
		"delete-view": cli.DeleteViewCommand,
	}
	cmd, ok := commands[sub]
	if !ok {
		unknownSubcommand("filters", sub)
	}
	withDashboard(cfg, asOf, func(dash *analytics.Dashboard) error {
		return cmd(dash, subArgs)
	})
}

func runSync(cfg *config.Config, args []string) {
	sub, subArgs := requireSubcommand("sync", args)

	var err error
	switch sub {
	case "status":
		err = charm.SyncStatusCommand(cfg.CharmHost, subArgs)
	case "now":
		err = charm.SyncNowCommand(cfg.CharmHost, subArgs)
	case "auto":
		err = charm.SyncAutoCommand(cfg.CharmHost, subArgs)
	case "wipe":
		err = charm.SyncWipeCommand(cfg.CharmHost, subArgs)
	default:
		unknownSubcommand("sync", sub)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runConfig(cfg *config.Config, path string, args []string) {
	sub, _ := requireSubcommand("config", args)
	if path == "" {
		path = config.Path()
	}

	switch sub {
	case "show":
		fmt.Printf("Config file:    %s\n", path)
		fmt.Printf("Database:       %s\n", cfg.DBPath)
		fmt.Printf("Filter backend: %s\n", cfg.FilterBackend)
		if cfg.FilterBackend == config.BackendFile {
			fmt.Printf("Filter file:    %s\n", cfg.FilterPath)
		} else {
			fmt.Printf("Charm host:     %s\n", cfg.CharmHost)
		}
		fmt.Printf("Default top N:  %d\n", cfg.DefaultTopN)
		fmt.Printf("Log level:      %s\n", cfg.LogLevel)
	case "init":
		if err := cfg.Save(path); err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Printf("✓ Wrote %s\n", path)
	default:
		unknownSubcommand("config", sub)
	}
}

func printUsage() {
	fmt.Printf(`pocportal v%s - POC portal executive analytics

USAGE:
  pocportal [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/pocportal/config.json)
  --db-path <path>       Database path (default: ~/.local/share/pocportal/pocportal.db)
  --as-of <date>         Evaluate lifecycle states as of YYYY-MM-DD (default: today)
  --debug                Enable debug logging

COMMANDS:
  data                   Import and inspect POC data
  analytics              Summaries, feature request rankings and drill-downs
  filters                Persisted filters and saved views
  sync                   Charm sync of filter state
  config                 Show or write configuration
  tui                    Interactive dashboard
  mcp                    Start MCP server for agent integration

DATA COMMANDS:
  pocportal data import <file>      Import a portal export (JSON)
  pocportal data seed               Generate a demo portfolio
    --seed <n>                        Random seed (default: 1)
    --now <date>                      Anchor date for generated POCs
    --output <file>                   Write the export instead of importing it
  pocportal data list-pocs          List imported POCs
    --product <code>                  Filter by product
    --limit <n>                       Max results (default: 50)
  pocportal data status             Record counts and last import

SELECTION FLAGS (analytics commands and 'filters set'):
  --region <a,b>         Regions (empty value clears)
  --product <a,b>        Products
  --se <a,b>             SE user IDs, or manager IDs to include their team
  --from <date>          Date range start (YYYY-MM-DD)
  --to <date>            Date range end (YYYY-MM-DD)
  --deal-breakers <m>    all | only
  --fr <a,b>             Selected feature request IDs (drives impacted value)
  --top <n>              5 | 10

ANALYTICS COMMANDS:
  pocportal analytics summary       Pipeline, open, in review, closed, impacted
    --json                            Print JSON
  pocportal analytics top           Top-N feature requests by deal value
    --all                             Print every row
    --json                            Print JSON
  pocportal analytics drilldown     POCs behind a metric or feature request
    --metric <m>                      total | open | in_review | closed | impacted
    --feature <id>                    Feature request ID
    --json                            Print JSON
  pocportal analytics dashboard     Text dashboard
    --width <n>                       Output width (default: terminal width)
  pocportal analytics graph         Feature request / POC graph
    --format <f>                      dot | svg | png (default: dot)
    --output <file>                   Output file (default: stdout)
    --top-only                        Only the Top-N feature requests

FILTER COMMANDS:
  pocportal filters show            Current filters and saved views
    --options                         Also list selectable values
    --json                            Print JSON
  pocportal filters set             Update the persisted filters
  pocportal filters reset           Clear every filter
  pocportal filters save-view <name>
  pocportal filters apply-view <name>
  pocportal filters delete-view <name>

SYNC COMMANDS:
  pocportal sync status             Charm connection and stored filters
  pocportal sync now                Sync immediately
  pocportal sync auto --enable|--disable  Toggle auto-sync
  pocportal sync wipe               Delete synced filter state

CONFIG COMMANDS:
  pocportal config show             Print effective configuration
  pocportal config init             Write the effective configuration to disk

EXAMPLES:
  # Load demo data and look at EMEA
  pocportal data seed --seed 7
  pocportal analytics summary --region EMEA

  # Top 5 deal-breaker feature requests, evaluated at quarter end
  pocportal --as-of 2025-06-30 analytics top --top 5 --deal-breakers only

  # Persist a filter and save it as a view
  pocportal filters set --product TLSPC
  pocportal filters save-view tlspc

`, version)
}
