// ABOUTME: Data CLI commands
// ABOUTME: Imports portal exports, seeds demo data and lists stored POCs
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sabixx/poc-portal-sub001/db"
	"github.com/sabixx/poc-portal-sub001/ingest"
	"github.com/sabixx/poc-portal-sub001/money"
)

// ImportCommand loads a JSON export into the local database.
func ImportCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("data import", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: data import <export.json>")
	}

	rec, rep, err := ingest.ImportFile(context.Background(), database, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Imported %s\n", rec.Source)
	fmt.Printf("  POCs: %d  Users: %d  Use cases: %d\n", rec.POCs, rec.Users, rec.UseCases)
	fmt.Printf("  Feature requests: %d  Links: %d\n", rec.FeatureRequests, rec.Links)
	if rep.Skipped() > 0 || rep.UnresolvedLinks > 0 || rep.BadDates > 0 {
		fmt.Printf("  Skipped: %d  Unresolved links: %d  Bad dates: %d\n",
			rep.Skipped(), rep.UnresolvedLinks, rep.BadDates)
	}
	return nil
}

// SeedCommand generates demo data and imports it.
func SeedCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("data seed", flag.ExitOnError)
	seed := fs.Int64("seed", 1, "Random seed")
	now := fs.String("now", "", "Reference date for generated POCs (YYYY-MM-DD, default today)")
	output := fs.String("output", "", "Also write the generated export to this file")
	_ = fs.Parse(args)

	opts := ingest.SeedOptions{Seed: *seed}
	if *now != "" {
		t, err := time.Parse("2006-01-02", *now)
		if err != nil {
			return fmt.Errorf("invalid --now date: %w", err)
		}
		opts.Now = t
	}

	exp := ingest.Seed(opts)
	if *output != "" {
		data, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
		if err := os.WriteFile(*output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("✓ Wrote %s\n", *output)
	}

	rec, _, err := ingest.Import(context.Background(), database, fmt.Sprintf("seed:%d", *seed), exp)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Seeded %d POCs, %d feature request links\n", rec.POCs, rec.Links)
	return nil
}

// ListPOCsCommand lists stored POCs.
func ListPOCsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("data list-pocs", flag.ExitOnError)
	product := fs.String("product", "", "Filter by product")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	pocs, err := db.ListPOCs(context.Background(), database, *product, *limit)
	if err != nil {
		return fmt.Errorf("failed to list pocs: %w", err)
	}

	if len(pocs) == 0 {
		fmt.Println("No POCs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CUSTOMER\tPRODUCT\tVALUE\tSTART\tOUTCOME\tID")
	_, _ = fmt.Fprintln(w, "--------\t-------\t-----\t-----\t-------\t--")

	var total money.Cents
	for _, p := range pocs {
		value := money.Parse(p.AEB)
		total += value
		start := "-"
		if p.StartDate != nil {
			start = p.StartDate.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.CustomerName, p.Product, money.Format(value), start, p.Outcome(), p.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d POC(s) - %s\n", len(pocs), money.Format(total))
	return nil
}

// StatusCommand shows record counts and the last import.
func StatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("data status", flag.ExitOnError)
	_ = fs.Parse(args)
	ctx := context.Background()

	counts, err := db.CountRecords(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	fmt.Println("Local Data")
	fmt.Println("──────────")
	fmt.Printf("POCs:             %d\n", counts.POCs)
	fmt.Printf("Users:            %d\n", counts.Users)
	fmt.Printf("Use cases:        %d\n", counts.UseCases)
	fmt.Printf("Feature requests: %d\n", counts.FeatureRequests)
	fmt.Printf("Links:            %d\n", counts.Links)

	last, err := db.LastImport(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to read import log: %w", err)
	}
	if last == nil {
		fmt.Println("\nNo imports yet. Run 'pocportal data import <file>' or 'pocportal data seed'.")
		return nil
	}
	fmt.Printf("\nLast import: %s (%s)\n", last.Source, humanize.Time(last.ImportedAt))
	return nil
}
