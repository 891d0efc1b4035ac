package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved story sessions",
	}
	cmd.AddCommand(sessionsListCmd())
	cmd.AddCommand(sessionsShowCmd())
	cmd.AddCommand(sessionsDeleteCmd())
	cmd.AddCommand(sessionsCleanupCmd())
	return cmd
}

func sessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsList()
		},
	}
}

func runSessionsList() error {
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

	sessions, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions found.")
		return nil
	}

	for _, sess := range sessions {
		fmt.Fprintf(os.Stdout, "%s  %-33s  %s\n",
			sess.ID, sess.DisplayName(), sess.LastUpdated.Format(time.RFC3339))
	}
	return nil
}

func sessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the world state of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsShow(args[0])
		},
	}
}

func runSessionsShow(id string) error {
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

	printWorldSummary(sess.World)
	if recent := sess.World.RecentHistory(5); len(recent) > 0 {
		fmt.Println("Recent history:")
		for _, entry := range recent {
			fmt.Printf("  %s\n", entry)
		}
	}
	return nil
}

func sessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsDelete(args[0])
		},
	}
}

func runSessionsDelete(id string) error {
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

	deleted, err := store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintf(os.Stdout, "No session %s to delete.\n", id)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Deleted session %s.\n", id)
	return nil
}

func sessionsCleanupCmd() *cobra.Command {
	var maxAgeDays int
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete sessions not touched within the age limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsCleanup(maxAgeDays)
		},
	}
	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 30, "Delete sessions older than this many days")
	return cmd
}

func runSessionsCleanup(maxAgeDays int) error {
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

	removed, err := store.Cleanup(ctx, maxAgeDays)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Removed %d session(s).\n", removed)
	return nil
}
