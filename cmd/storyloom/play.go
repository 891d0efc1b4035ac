package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"storyloom/internal/session"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <session-id>",
		Short: "Play an interactive story session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(args[0])
		},
	}
}

func runPlay(id string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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
	defer store.Close(context.Background())

	sess, err := store.Load(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session %s not found", id)
	}

	if dangling := sess.World.DanglingActiveCharacters(); len(dangling) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: scene names %s in the active cast have no character profile\n", strings.Join(dangling, ", "))
	}

	fmt.Printf("Playing %s\n", sess.DisplayName())
	fmt.Println("Describe your actions, use *asterisks* to steer the story, or type 'help'.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if ctx.Err() != nil {
			break
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit":
			return saveSession(store, sess)
		case "save":
			if err := saveSession(store, sess); err != nil {
				fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
			} else {
				fmt.Println("Saved.")
			}
			continue
		case "help", "?":
			printPlayHelp()
			continue
		case "status":
			printStatus(sess)
			continue
		}

		response, err := eng.ContinueStory(ctx, input, sess.World)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(os.Stderr, "\nInterrupted.")
				break
			}
			fmt.Fprintf(os.Stderr, "The story stalls: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", response)

		sess.AddMessage(session.Message{"role": "user", "content": input})
		sess.AddMessage(session.Message{"role": "narrator", "content": response})
		if err := saveSession(store, sess); err != nil {
			fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
		}
	}

	return saveSession(store, sess)
}

// saveSession uses a fresh context so an interrupt that cancelled the play
// loop cannot also abort the final save.
func saveSession(store session.Store, sess *session.StorySession) error {
	return store.Save(context.Background(), sess)
}

func printPlayHelp() {
	fmt.Println("Commands:")
	fmt.Println("  save        Save the session")
	fmt.Println("  status      Show the session state")
	fmt.Println("  quit, exit  Save and leave")
	fmt.Println("  help, ?     Show this help")
	fmt.Println("Anything else advances the story. Wrap input in *asterisks*")
	fmt.Println("to direct the story from outside your character.")
}

func printStatus(sess *session.StorySession) {
	w := sess.World
	fmt.Printf("Session:  %s\n", sess.ID)
	fmt.Printf("Premise:  %s\n", w.Premise)
	fmt.Printf("Scene:    %s\n", w.CurrentScene.Location)
	fmt.Printf("Cast:     %s\n", strings.Join(w.CharacterNames(), ", "))
	fmt.Printf("History:  %d entries\n", len(w.History))
}
