// Command flightchat-cli drives a flightchat server from the terminal: it
// submits the trip form, prints results and suggested filters, then keeps
// the conversation going.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightchat/internal/chat"
	"flightchat/internal/conversation"
	"flightchat/pkg/logger"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "flightchat-cli"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Conversational flight search client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(searchCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func searchCmd() *cobra.Command {
	var (
		server     string
		from       string
		to         string
		depart     string
		returnDate string
		timeout    time.Duration
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search flights and continue the conversation interactively",
		Long: `Submits the trip form to the server, prints the flights and suggested
filters, then reads chat messages from stdin.

Inside the session:
  /filter N   apply suggested filter N (or its id)
  /search     rerun the structured search with the current form
  /form       print the current form
  /quit       leave`,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := chat.FormData{
				DeparturePlace: from,
				ReturnPlace:    to,
				DepartureDate:  depart,
			}
			if returnDate != "" {
				form.ReturnDate = &returnDate
			}

			log := logger.NewNop()
			if verbose {
				log = logger.NewWithWriter("development", cmd.ErrOrStderr())
			}

			sender := conversation.NewHTTPSender(&http.Client{Timeout: timeout}, server)
			manager := conversation.NewManager(sender, log)
			if err := manager.SetForm(form); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return newSession(manager, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "flightchat server base URL")
	cmd.Flags().StringVar(&from, "from", "", "Departure city")
	cmd.Flags().StringVar(&to, "to", "", "Destination city")
	cmd.Flags().StringVar(&depart, "depart", "", "Departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&returnDate, "return", "", "Return date (YYYY-MM-DD), optional")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Per-request timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("depart")

	return cmd
}
