package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storyloom/internal/session"
	"storyloom/internal/story"
)

func newCmd() *cobra.Command {
	var requirements string
	cmd := &cobra.Command{
		Use:   "new <concept>",
		Short: "Create a new story scenario from a concept",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(strings.Join(args, " "), requirements)
		},
	}
	cmd.Flags().StringVar(&requirements, "requirements", "", "Additional constraints for the scenario")
	return cmd
}

func runNew(concept, requirements string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	world, err := eng.CreateScenario(ctx, concept, requirements)
	if err != nil {
		return err
	}
	printWorldSummary(world)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Refine the scenario (blank line to accept): ")
		if !scanner.Scan() {
			break
		}
		feedback := strings.TrimSpace(scanner.Text())
		if feedback == "" {
			break
		}
		if err := eng.RefineScenario(ctx, world, feedback); err != nil {
			fmt.Fprintf(os.Stderr, "Refinement failed: %v\n", err)
			continue
		}
		printWorldSummary(world)
	}

	sess := session.New(world, "")
	if err := store.Save(ctx, sess); err != nil {
		return err
	}
	fmt.Printf("Saved session %s\n", sess.ID)
	fmt.Printf("Continue with: storyloom play %s\n", sess.ID)
	return nil
}

func printWorldSummary(w *story.World) {
	fmt.Printf("\nPremise: %s\n", w.Premise)
	fmt.Printf("Setting: %s\n", w.Setting)
	if len(w.Conflicts) > 0 {
		fmt.Println("Conflicts:")
		for _, c := range w.Conflicts {
			fmt.Printf("  - %s\n", c)
		}
	}
	if len(w.Characters) > 0 {
		fmt.Println("Characters:")
		for _, name := range w.CharacterNames() {
			fmt.Printf("  - %s: %s\n", name, w.Characters[name].Description)
		}
	}
	fmt.Printf("Opening scene: %s (%s)\n\n", w.CurrentScene.Location, w.CurrentScene.Atmosphere)
}
