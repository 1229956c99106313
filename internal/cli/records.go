package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/cvtrack/internal/common"
	"github.com/dmitrijs2005/cvtrack/internal/insights"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/dmitrijs2005/cvtrack/internal/store"
	"github.com/spf13/cobra"
)

func newListCmd(s *session) *cobra.Command {
	var (
		ff      filterFlags
		order   string
		deleted bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List application records",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deleted {
				for _, id := range s.app.Store.DeletedIDs() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}
			f, err := ff.filter()
			if err != nil {
				return err
			}
			so, err := insights.ParseSort(order)
			if err != nil {
				return err
			}
			apps := insights.Apply(s.app.Store.GetAll(), f, s.now())
			insights.Sort(apps, so)
			return writeTable(cmd.OutOrStdout(), apps)
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().StringVar(&order, "sort", "latest", "sort order: latest, earliest, status, company")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "print the deleted ids instead")
	return cmd
}

func writeTable(w io.Writer, apps []models.Application) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCOMPANY\tCOUNTRY\tSTATUS\tCV\tMANUAL\tUPDATED")
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Date, a.Company, a.Country, a.Status,
			yesNo(a.CVFound), yesNo(a.Manual), a.LastUpdated.Local().Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d record(s)\n", len(apps))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newAddCmd(s *session) *cobra.Command {
	var p store.AddParams
	var status string
	var auto bool
	cmd := &cobra.Command{
		Use:   "add <DD-MM-YY> <company>",
		Short: "Add or replace an application record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := recordInput{Date: strings.TrimSpace(args[0]), Company: strings.TrimSpace(args[1])}
			if err := checkInput(in); err != nil {
				return err
			}
			st, err := models.ParseStatus(status)
			if err != nil {
				return err
			}
			p.Date, p.Company, p.Status, p.Manual = in.Date, in.Company, st, !auto

			id, err := s.app.Store.Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "added", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Country, "country", models.CountryUnknown, "target country")
	cmd.Flags().StringVar(&status, "status", string(models.StatusUnknown), "initial status")
	cmd.Flags().StringVar(&p.RoleTitle, "role", "", "role title")
	cmd.Flags().BoolVar(&auto, "auto", false, "let scans infer country and status later")
	return cmd
}

func newRenameCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <DD-MM-YY> <company>",
		Short: "Change the date and company of a record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := recordInput{Date: strings.TrimSpace(args[1]), Company: strings.TrimSpace(args[2])}
			if err := checkInput(in); err != nil {
				return err
			}
			id, err := s.app.Store.Rename(cmd.Context(), args[0], in.Date, in.Company)
			switch {
			case errors.Is(err, common.ErrRenameConflict):
				return fmt.Errorf("%s: %w", id, err)
			case err != nil:
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "renamed", args[0], "to", id)
			return nil
		},
	}
}

func newSetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Edit one field: country, status, role or folder",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := models.ParseField(args[1])
			if err != nil {
				return err
			}
			if err := s.app.Store.UpdateField(cmd.Context(), args[0], field, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %s\n", args[0], field, args[2])
			return nil
		},
	}
}

func newStatusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of a record",
		Long:  "Set the status of a record. Statuses: Unknown, In Process, Followed Up, Rejected.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}
			if err := s.app.Store.UpdateStatus(cmd.Context(), args[0], st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], st)
			return nil
		},
	}
}

func newDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete records for good; later scans will not bring them back",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := s.app.Store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
			}
			return nil
		},
	}
}
