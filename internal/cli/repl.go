package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cvtrack/internal/flagx"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the shell needs. The shell session
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Exec(ctx context.Context, args []string) error
	RequestRefresh()
}

const shellHelp = `Commands:
  list [--status S] [--search Q] [--range R] [--radar B] [--sort O]
  add <DD-MM-YY> <company> [--country C] [--status S] [--role R]
  rename <id> <DD-MM-YY> <company>
  set <id> <country|status|role|folder> <value>
  status <id> <status>
  delete <id>...
  scan | refresh
  summary [--timeline]
  export [--out FILE]
  generate {cv|cl|both} --company C [--country C] [--role R]
  help | exit`

// runREPL reads one command per line and dispatches it to a. Lines are split
// like a shell, so quoted arguments may contain spaces. Errors are printed
// and the loop goes on; it ends on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if promptFn != nil {
			printlnFn(promptFn())
		}
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		args, err := flagx.Split(scanner.Text())
		if err != nil {
			printlnFn("Error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help", "?":
			printlnFn(shellHelp)

		case "refresh":
			a.RequestRefresh()
			printlnFn("Refresh requested")

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if err := a.Exec(ctx, args); err != nil {
				if errors.Is(err, errUnknownCommand) {
					printlnFn("Unknown command:", args[0])
					continue
				}
				printlnFn("Error:", err)
			}
		}
	}
}
