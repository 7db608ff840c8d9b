package cmd

import (
	"fmt"
	"os"
	"strconv"

	"demnow-backend/internal/house/bill"
	"demnow-backend/internal/house/corpus"
	"demnow-backend/internal/house/rep"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query GROUP KEY VALUE [KEY VALUE...]",
	Short: "Searches the loaded corpus; extra KEY VALUE pairs intersect.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 3 || (len(args)-1)%2 != 0 {
			return fmt.Errorf("expected GROUP followed by KEY VALUE pairs, got %d argument(s)", len(args))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		c := loadCorpus()
		group := args[0]

		result, err := c.Search(group, args[1], args[2])
		if err != nil {
			fatal("search failed", err)
		}
		for i := 3; i < len(args); i += 2 {
			next, err := c.Search(group, args[i], args[i+1])
			if err != nil {
				fatal("search failed", err)
			}
			result = result.Intersect(next)
		}

		renderSet(result)
	},
}

func renderSet(result corpus.Set) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Kind", "Name", "Detail", "Source"})

	for e := range result {
		switch entity := e.(type) {
		case *rep.Representative:
			detail := entity.CurrentParty() + ", " + entity.CurrentState()
			if district := entity.CurrentDistrict(); district != 0 {
				detail += " " + strconv.Itoa(district)
			}
			t.AppendRow(table.Row{"rep", entity.Basics.Name, detail, entity.Sources.URL})
		case *bill.Bill:
			detail := strconv.Itoa(entity.Congress) + "th Congress"
			if stage, ok := entity.CurrentStage(); ok {
				detail += ", " + stage
			}
			t.AppendRow(table.Row{"bill", entity.Title, detail, entity.Sources.URL})
		default:
			t.AppendRow(table.Row{entity.EntityKind(), "", "", ""})
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Printf("%d result(s)\n", len(result))
}
