package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"storyloom/internal/engine"
	"storyloom/internal/session"
)

func exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session as readable text or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func runExport(id, format string) error {
	switch format {
	case "text", "json":
	default:
		return &engine.ValidationError{Msg: fmt.Sprintf("unsupported export format: %s", format)}
	}

	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	sess, err := store.Load(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session %s not found", id)
	}

	if format == "json" {
		data, err := sess.Encode()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}
	writeTranscript(os.Stdout, sess)
	return nil
}

func writeTranscript(out io.Writer, sess *session.StorySession) {
	w := sess.World
	fmt.Fprintf(out, "%s\n\n", sess.DisplayName())
	fmt.Fprintf(out, "Premise: %s\n", w.Premise)
	fmt.Fprintf(out, "Setting: %s\n\n", w.Setting)

	if len(w.Characters) > 0 {
		fmt.Fprintln(out, "Cast:")
		for _, name := range w.CharacterNames() {
			fmt.Fprintf(out, "  %s, %s\n", name, w.Characters[name].Description)
		}
		fmt.Fprintln(out)
	}

	for _, entry := range w.History {
		fmt.Fprintln(out, entry)
	}
}
