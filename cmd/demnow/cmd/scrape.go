package cmd

import (
	"fmt"
	"os"

	"demnow-backend/internal/ingest"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var forceReload bool

func init() {
	scrapeCmd.PersistentFlags().BoolVar(&forceReload, "force", false,
		"refetch documents even when a cached copy exists")
	scrapeRepsCmd.Flags().Bool("from-corpus", false,
		"scrape every sponsor and cosponsor url referenced by loaded bills")
	scrapeCmd.AddCommand(scrapeBillsCmd)
	scrapeCmd.AddCommand(scrapeRepsCmd)
	scrapeCmd.AddCommand(scrapeVotesCmd)
	scrapeCmd.AddCommand(scrapeFloorCmd)
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetches documents, extracts records and persists them.",
}

func printReport(report ingest.Report) {
	fmt.Printf("scraped %d record(s)\n", report.OK)
	if len(report.Failures) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Failed URL", "Error"})
	for _, f := range report.Failures {
		t.AppendRow(table.Row{f.URL, f.Err.Error()})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	os.Exit(1)
}

var scrapeBillsCmd = &cobra.Command{
	Use:   "bills URL...",
	Short: "Scrapes bill detail pages from congress.gov.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printReport(newScraper().ScrapeBills(cmd.Context(), args, forceReload))
	},
}

var scrapeRepsCmd = &cobra.Command{
	Use:   "reps [URL...]",
	Short: "Scrapes member pages; with --from-corpus, every member the loaded bills reference.",
	Run: func(cmd *cobra.Command, args []string) {
		urls := args
		fromCorpus, _ := cmd.Flags().GetBool("from-corpus")
		if fromCorpus {
			urls = append(urls, ingest.RepURLs(loadCorpus())...)
		}
		if len(urls) == 0 {
			fmt.Fprintln(os.Stderr, "no member urls given; pass urls or --from-corpus")
			os.Exit(1)
		}
		printReport(newScraper().ScrapeReps(cmd.Context(), urls, forceReload))
	},
}

var scrapeVotesCmd = &cobra.Command{
	Use:   "votes URL...",
	Short: "Scrapes roll-call vote feeds from clerk.house.gov.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printReport(newScraper().ScrapeVotes(cmd.Context(), args, forceReload))
	},
}

var scrapeFloorCmd = &cobra.Command{
	Use:   "floor URL...",
	Short: "Scrapes floor-proceedings documents, then the votes and bills they reference.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		scraper := newScraper()
		var merged ingest.Report
		for _, url := range args {
			session, err := scraper.ScrapeFloor(cmd.Context(), url, forceReload)
			if err != nil {
				fatal("failed to scrape floor proceedings", err)
			}
			report := scraper.ResolveFloorRefs(cmd.Context(), loadCorpus(), session, forceReload)
			merged.OK += report.OK
			merged.Failures = append(merged.Failures, report.Failures...)
		}
		printReport(merged)
	},
}
