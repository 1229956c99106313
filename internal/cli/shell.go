package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errUnknownCommand = errors.New("unknown command")

// shellSession runs store commands against an already open application.
type shellSession struct {
	s *session
}

func (sh *shellSession) Exec(ctx context.Context, args []string) error {
	root := &cobra.Command{
		Use:           "cvtrack",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(sh.s.opts.Out)
	root.SetErr(sh.s.opts.Out)
	addStoreCommands(root, sh.s)

	if c, _, err := root.Find(args); err != nil || c == root {
		return errUnknownCommand
	}
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (sh *shellSession) RequestRefresh() {
	sh.s.app.Worker.RequestRefresh()
}

func newShellCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with background scanning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var (
				wg    sync.WaitGroup
				bgErr error
			)
			wg.Add(1)
			go func() {
				defer wg.Done()
				bgErr = s.app.RunBackground(ctx)
			}()

			in := cmd.InOrStdin()
			var prompt func() string
			if isTerminal(in) {
				printlnFn("cvtrack shell (type 'help' for commands)")
				prompt = func() string {
					return fmt.Sprintf("cvtrack (%d records)>", s.app.Store.Count())
				}
			}

			runREPL(ctx, &shellSession{s: s}, prompt, bufio.NewScanner(in))

			cancel()
			wg.Wait()
			return bgErr
		},
	}
}

func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
