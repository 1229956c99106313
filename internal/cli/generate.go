package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cvtrack/internal/generator"
	"github.com/spf13/cobra"
)

type generateInput struct {
	Company string `validate:"required"`
	Country string
	Role    string
	Fields  map[string]string
}

func newGenerateCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Render documents from templates into today's outputs folder",
	}

	sub := func(use, short string, run func(*generator.Service, context.Context, generator.Request) (generator.Outcome, error)) *cobra.Command {
		var in generateInput
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := checkInput(in); err != nil {
					return err
				}
				out, err := run(s.app.Generator, cmd.Context(), generator.Request{
					Company:   in.Company,
					Country:   in.Country,
					RoleTitle: in.Role,
					Extra:     in.Fields,
				})
				printOutcome(cmd.OutOrStdout(), out)
				return err
			},
		}
		c.Flags().StringVar(&in.Company, "company", "", "company name")
		c.Flags().StringVar(&in.Country, "country", "", "target country")
		c.Flags().StringVar(&in.Role, "role", "", "role title")
		c.Flags().StringToStringVar(&in.Fields, "field", nil, "extra template field as key=value")
		return c
	}

	cmd.AddCommand(
		sub("cv", "Generate the CV and register the application", (*generator.Service).GenerateCV),
		sub("cl", "Generate the cover letter only", (*generator.Service).GenerateCoverLetter),
		sub("both", "Generate the CV and the cover letter", (*generator.Service).GenerateBoth),
	)
	return cmd
}

func printOutcome(w io.Writer, o generator.Outcome) {
	for _, d := range o.Documents {
		if d.Err != nil {
			fmt.Fprintf(w, "%s: failed: %v\n", d.Kind, d.Err)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", d.Kind, d.Path)
	}
	if o.ID != "" {
		fmt.Fprintln(w, "registered", o.ID)
	}
}
