package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newChatSessionID generates a throwaway session id for one CLI run, like
// temp_20250811_3fa2c1.
func newChatSessionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("temp_%s_%s", time.Now().Format("20060102"), id[:6])
}

func newChatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the intake assistant",
		Long:  "With a message argument, sends one turn and prints the reply. Without arguments, starts an interactive session that runs until EOF or a completed case.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAndValidate()
			if err != nil {
				return err
			}

			engine, _, db, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if sessionID == "" {
				sessionID = newChatSessionID()
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if len(args) > 0 {
				result := engine.HandleTurn(ctx, sessionID, strings.Join(args, " "))
				fmt.Println(result.Display)
				return nil
			}

			fmt.Println("Tell me about your case. Press Ctrl-D to finish.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}

				result := engine.HandleTurn(ctx, sessionID, text)
				fmt.Println(result.Display)

				if result.Committed {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				default:
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id to use (default: a fresh temporary session)")

	return cmd
}
