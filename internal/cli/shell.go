// Package cli — shell.go implements the "nik-checker shell" command.
//
// The shell is the terminal version of the lookup form: a NIK input,
// a history selector, and lookup/save/clear/exit actions, with results
// accumulating in an output area. Commands are read one per line and
// split with shell quoting rules, so quoted paths may contain spaces.
//
// No error ends the shell. Each failure is shown as a message on stderr
// and as an "Error: ..." line in the output area.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/nik-checker/internal/render"
	"github.com/shinji-kodama/nik-checker/internal/session"
)

// shellFlags holds the flag values for the shell command.
type shellFlags struct {
	// savePath pre-fills the file-name input.
	savePath string
}

// NewShellCommand creates the "shell" cobra command.
func NewShellCommand() *cobra.Command {
	flags := &shellFlags{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive lookup session",
		Long: `Start an interactive session. Type a 16-digit NIK to look it up,
or "help" for the list of commands.

History is kept for the session only and is lost on exit.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession()
			if err != nil {
				return err
			}
			sess.SavePath = flags.savePath

			sh := &shell{
				sess:      sess,
				in:        cmd.InOrStdin(),
				out:       cmd.OutOrStdout(),
				errOut:    cmd.ErrOrStderr(),
				prompt:    isTerminal(cmd.InOrStdin()),
				interrupt: interruptContext,
			}
			return sh.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flags.savePath, "save-path", "", "Default file for the save command")

	return cmd
}

// interruptContext derives a context cancelled by Ctrl-C. It is installed
// only while a lookup is running, so Ctrl-C at the prompt still exits.
func interruptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// shell is one interactive loop over a session.
type shell struct {
	sess      *session.Session
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	prompt    bool
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

// errExit signals a clean exit from the loop.
var errExit = errors.New("exit")

// run reads and executes commands until exit or end of input.
func (sh *shell) run(ctx context.Context) error {
	sh.sess.Output().Append(render.TagHighlight, render.Banner)
	sh.sess.Output().Flush(sh.out)
	pterm.Info.WithWriter(sh.out).Println(`Type a 16-digit NIK, or "help" for commands.`)

	scanner := bufio.NewScanner(sh.in)
	for {
		if sh.prompt {
			_, _ = fmt.Fprint(sh.out, "nik> ")
		}
		if !scanner.Scan() {
			break
		}

		err := sh.execute(ctx, scanner.Text())
		sh.sess.Output().Flush(sh.out)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			pterm.Error.WithWriter(sh.errOut).Println(session.Describe(err))
		}
	}
	return scanner.Err()
}

// execute runs one input line.
func (sh *shell) execute(ctx context.Context, line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("cannot parse command: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	name, rest := strings.ToLower(args[0]), args[1:]

	// A bare number is a lookup; the workflow reports a wrong length.
	if len(args) == 1 && isDigits(args[0]) {
		return sh.check(ctx, args[0])
	}

	switch name {
	case "check", "cek", "lookup":
		if len(rest) > 1 {
			return fmt.Errorf("usage: check [nik]")
		}
		nik := ""
		if len(rest) == 1 {
			nik = rest[0]
		}
		return sh.check(ctx, nik)

	case "history", "riwayat":
		sh.printHistory()
		return nil

	case "pick":
		if len(rest) != 1 {
			return fmt.Errorf("usage: pick <number|nik>")
		}
		id, err := sh.sess.Pick(rest[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(sh.out, "NIK set to %s. Type \"check\" to look it up.\n", id)
		return nil

	case "save", "simpan":
		if len(rest) > 2 {
			return fmt.Errorf("usage: save [path] [text|json|yaml]")
		}
		path, formatArg := "", ""
		if len(rest) >= 1 {
			path = rest[0]
		}
		if len(rest) == 2 {
			formatArg = rest[1]
		}
		format, err := session.ParseSaveFormat(formatArg)
		if err != nil {
			return err
		}
		return sh.sess.Save(path, format)

	case "path":
		if len(rest) != 1 {
			return fmt.Errorf("usage: path <file>")
		}
		sh.sess.SavePath = rest[0]
		return nil

	case "show":
		sh.sess.Output().Render(sh.out)
		return nil

	case "clear":
		sh.sess.Clear()
		_, _ = fmt.Fprintln(sh.out, "Cleared.")
		return nil

	case "help", "?":
		sh.printHelp()
		return nil

	case "exit", "quit", "q":
		return errExit

	default:
		return fmt.Errorf("unknown command %q (type \"help\")", args[0])
	}
}

// check runs a lookup that Ctrl-C can cancel without leaving the shell.
func (sh *shell) check(ctx context.Context, nik string) error {
	lookupCtx, cancel := sh.interrupt(ctx)
	defer cancel()

	_, err := sh.sess.Lookup(lookupCtx, nik)
	return err
}

func (sh *shell) printHistory() {
	entries := sh.sess.History().Entries()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(sh.out, "No NIK looked up yet.")
		return
	}
	for i, id := range entries {
		_, _ = fmt.Fprintf(sh.out, "%3d. %s\n", i+1, id)
	}
}

func (sh *shell) printHelp() {
	_, _ = fmt.Fprint(sh.out, `Commands:
  <nik>                      look up a 16-digit NIK
  check [nik]                look up nik, or the current input
  history                    list NIKs looked up in this session
  pick <number|nik>          set the current input from history
  save [path] [format]       save output (format: text, json, yaml)
  path <file>                set the default save file
  show                       print the whole output area again
  clear                      clear input, save path and output
  exit                       leave the shell
`)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
