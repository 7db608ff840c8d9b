package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints how many records of each kind are loaded.",
	Run: func(cmd *cobra.Command, args []string) {
		c := loadCorpus()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Kind", "Records"})
		t.AppendRow(table.Row{"bills", len(c.Bills)})
		t.AppendRow(table.Row{"reps", len(c.Reps)})
		t.AppendRow(table.Row{"votes", len(c.Votes)})
		t.AppendRow(table.Row{"session", len(c.Sessions)})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
