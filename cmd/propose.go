package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhaeusler/sessionbot/pkg/export"
)

var (
	proposeFormat string
	proposeOutput string
)

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Compute proposals without publishing anything",
	Long: "propose runs the read-only half of a pass and prints the result. " +
		"No wiki page is edited and no sessions are cleaned, so the command is " +
		"safe to run while the bot is disabled.",
	RunE: runPropose,
}

func init() {
	proposeCmd.Flags().StringVarP(&proposeFormat, "format", "f", "wiki", "output format: wiki, json or csv")
	proposeCmd.Flags().StringVarP(&proposeOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(proposeCmd)
}

func runPropose(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	proposals, rendered, err := svc.Propose(ctx)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if proposeOutput != "" {
		f, err := os.Create(proposeOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch proposeFormat {
	case "wiki":
		_, err = fmt.Fprintln(out, rendered)
		return err
	case "json":
		return export.WriteJSON(out, proposals)
	case "csv":
		return export.WriteCSV(out, proposals)
	default:
		return fmt.Errorf("unknown format %q", proposeFormat)
	}
}
