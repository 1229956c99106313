package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cvtrack/internal/insights"
	"github.com/dmitrijs2005/cvtrack/internal/mirror"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/dmitrijs2005/cvtrack/internal/store"
	"github.com/spf13/cobra"
)

func newScanCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Reconcile records with the outputs folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := s.app.Scan(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func printReport(w io.Writer, r store.ScanReport) {
	fmt.Fprintf(w, "scanned %s: %d updated, %d discovered, %d removed, %d skipped\n",
		r.Root, r.Updated, r.Discovered, r.Removed, r.Skipped)
}

func newSummaryCmd(s *session) *cobra.Command {
	var (
		ff       filterFlags
		top      int
		timeline bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, funnel, top countries and the action radar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			now := s.now()
			apps := insights.Apply(s.app.Store.GetAll(), f, now)
			w := cmd.OutOrStdout()

			sum := insights.Summarize(apps)
			fmt.Fprintf(w, "Total: %d\n", sum.Total)
			for _, st := range models.Statuses() {
				fmt.Fprintf(w, "  %-12s %d\n", st, sum.ByStatus[st])
			}

			fn := insights.FunnelOf(apps)
			fmt.Fprintf(w, "Funnel: applied %d, interview %d, rejected %d\n", fn.Applied, fn.Interview, fn.Rejected)

			counts := insights.TopCountries(apps, top)
			parts := make([]string, 0, len(counts))
			for _, c := range counts {
				parts = append(parts, fmt.Sprintf("%s %d", c.Country, c.Count))
			}
			fmt.Fprintf(w, "Top countries: %s\n", strings.Join(parts, ", "))

			r := insights.RadarOf(apps, now)
			fmt.Fprintf(w, "Radar: recent %d, stale %d, stalled %d\n", r.Recent, r.Stale, r.Stalled)

			if timeline {
				for _, d := range insights.Timeline(apps, f, now) {
					fmt.Fprintf(w, "%s %s %d\n", d.Day.Format(models.DateLayout), strings.Repeat("#", d.Count), d.Count)
				}
			}
			return nil
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().IntVar(&top, "top", insights.DefaultTopCountries, "how many countries to show")
	cmd.Flags().BoolVar(&timeline, "timeline", false, "also print applications per day")
	return cmd
}

func newExportCmd(s *session) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON export of every record and the deleted ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc := s.app.Store.Export()
			if out == "" || out == "-" {
				return mirror.Encode(cmd.OutOrStdout(), doc)
			}
			if err := mirror.WriteFile(out, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d record(s) to %s\n", len(doc.Applications), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "f", "", "output file (default stdout)")
	return cmd
}

func newWatchCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep scanning in the background until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s, press Ctrl+C to stop\n", s.app.Config.OutputsDir)
			return s.app.RunBackground(cmd.Context())
		},
	}
}
