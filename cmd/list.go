package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"job-tracker/domain"
	"job-tracker/infrastructure"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications, most recently updated first",
	Long: `List prints every tracked application in the same order as GET /applications.

Example:
  tracker list
  tracker list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), os.Stdout)
	},
}

func runList(ctx context.Context, out io.Writer) error {
	db, err := infrastructure.OpenDatabase(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	// A fresh database lists as empty rather than failing on a missing table.
	if err := infrastructure.Migrate(db); err != nil {
		return err
	}

	apps, err := infrastructure.NewApplicationStore(db).ListAll(ctx)
	if err != nil {
		return err
	}

	if listJSON {
		data, err := json.MarshalIndent(apps, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal applications: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	printApplicationTable(out, apps)
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}

var statusColors = map[domain.Status]*color.Color{
	domain.StatusApplied:   color.New(color.FgBlue),
	domain.StatusScreen:    color.New(color.FgCyan),
	domain.StatusOnsite:    color.New(color.FgYellow),
	domain.StatusOffer:     color.New(color.FgGreen),
	domain.StatusRejected:  color.New(color.FgRed),
	domain.StatusWithdrawn: color.New(color.FgHiBlack),
}

func statusLabel(s domain.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s.Label())
	}
	return s.Label()
}

// printApplicationTable keeps the coloured status last so escape codes do not
// skew the tabwriter columns.
func printApplicationTable(out io.Writer, apps []domain.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(out, "No applications found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tROLE\tFOLLOW UP\tUPDATED\tSTATUS")
	for _, a := range apps {
		followUp := "-"
		if a.NextFollowUp != nil {
			followUp = a.NextFollowUp.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			truncate(a.Company, 30),
			truncate(a.Role, 30),
			followUp,
			a.UpdatedAt.Format("2006-01-02 15:04"),
			statusLabel(a.Status),
		)
	}
	w.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	fmt.Fprintf(out, "Total: %d application(s)\n", len(apps))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
