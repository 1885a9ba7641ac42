// Package cli — lookup.go implements the "nik-checker lookup" command.
//
// The lookup command runs one lookup and prints the result, optionally
// saving it to a file. It is the scripting counterpart of the shell.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/nik-checker/internal/model"
	"github.com/shinji-kodama/nik-checker/internal/session"
)

// lookupFlags holds the flag values for the lookup command.
type lookupFlags struct {
	// savePath, when set, receives the output after a successful lookup.
	savePath string

	// format selects what is saved: text, json, or yaml.
	format string
}

// NewLookupCommand creates the "lookup" cobra command.
func NewLookupCommand() *cobra.Command {
	flags := &lookupFlags{}

	cmd := &cobra.Command{
		Use:     "lookup <nik>",
		Aliases: []string{"cek"},
		Short:   "Look up one NIK",
		Long: `Look up a single 16-digit NIK and print the response.

Exit codes: 2 invalid NIK, 3 no internet connection, 4 request failed,
5 save failed, 6 invalid configuration.

Examples:
  nik-checker lookup 3201010101010001
  nik-checker lookup 3201010101010001 --save result.yaml --format yaml
  nik-checker lookup 3201010101010001 --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.savePath, "save", "o", "", "Save the output to this file")
	cmd.Flags().StringVar(&flags.format, "format", "text", "Save format: text, json, yaml")

	return cmd
}

// runLookup is the main logic function for the lookup command.
func runLookup(ctx context.Context, out io.Writer, nik string, flags *lookupFlags) error {
	// Step 1: Validate flags before any network traffic.
	format, err := session.ParseSaveFormat(flags.format)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid --format", err)
	}

	// Step 2: Build the session from configuration.
	sess, err := newSession()
	if err != nil {
		return err
	}

	// Step 3: Run the lookup. Ctrl-C cancels the request.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	res, err := sess.Lookup(ctx, nik)
	if err != nil {
		return err
	}

	// Step 4: Print.
	if IsJSONOutput() {
		printLookupJSON(out, res, sess.History())
	} else {
		sess.Output().Render(out)
	}

	// Step 5: Optionally save.
	if flags.savePath != "" {
		if err := sess.Save(flags.savePath, format); err != nil {
			return err
		}
		VerboseLog("Saved %s output to %s", format, flags.savePath)
		if !IsJSONOutput() {
			pterm.Success.WithWriter(out).Printfln("Saved to %s", flags.savePath)
		}
	}
	return nil
}

// lookupJSON is the --json output of the lookup command.
type lookupJSON struct {
	NIK       string          `json:"nik"`
	FetchedAt string          `json:"fetchedAt"`
	LatencyMS int64           `json:"latencyMs"`
	Result    json.RawMessage `json:"result"`
	History   []string        `json:"history"`
}

func printLookupJSON(out io.Writer, res *model.LookupResult, history *model.History) {
	entries := history.Entries()
	result := lookupJSON{
		NIK:       res.Identifier.String(),
		FetchedAt: res.FetchedAt.UTC().Format(time.RFC3339),
		LatencyMS: res.Latency.Milliseconds(),
		Result:    res.Raw,
		History:   make([]string, 0, len(entries)),
	}
	for _, id := range entries {
		result.History = append(result.History, id.String())
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	_, _ = fmt.Fprintln(out, string(data))
}
