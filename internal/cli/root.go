package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/app"
	"github.com/dmitrijs2005/cvtrack/internal/config"
	"github.com/spf13/cobra"
)

// Options carries the process environment. Zero values use the real one.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Getenv func(string) (string, bool)
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// session holds the application opened for the running command.
type session struct {
	opts Options
	app  *app.App
}

func (s *session) open(cmd *cobra.Command, _ []string) error {
	if s.app != nil {
		return nil
	}
	cfg, err := config.Load(cmd.Flags(), s.opts.Getenv)
	if err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg, app.Options{LogOut: s.opts.Err, Now: s.opts.Now})
	if err != nil {
		return err
	}
	s.app = a
	return nil
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

func (s *session) now() time.Time { return s.opts.Now() }

// Execute runs the command line args and releases the store afterwards.
func Execute(ctx context.Context, args []string, opts Options) error {
	s := &session{opts: opts.withDefaults()}
	defer func() { _ = s.close() }()

	root := newRootCmd(s)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:               "cvtrack",
		Short:             "Track job applications generated into an outputs folder",
		Long:              "cvtrack keeps a record of every job application, reconciles it with the generated documents on disk, and reports on progress.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.open,
	}
	root.SetIn(s.opts.In)
	root.SetOut(s.opts.Out)
	root.SetErr(s.opts.Err)
	config.RegisterFlags(root.PersistentFlags())

	addStoreCommands(root, s)
	root.AddCommand(newWatchCmd(s), newShellCmd(s))
	return root
}

// addStoreCommands adds the commands shared by the command line and the
// shell.
func addStoreCommands(parent *cobra.Command, s *session) {
	parent.AddCommand(
		newListCmd(s),
		newAddCmd(s),
		newRenameCmd(s),
		newSetCmd(s),
		newStatusCmd(s),
		newDeleteCmd(s),
		newScanCmd(s),
		newSummaryCmd(s),
		newExportCmd(s),
		newGenerateCmd(s),
	)
}
