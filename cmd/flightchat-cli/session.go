package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"flightchat/internal/chat"
	"flightchat/internal/conversation"
)

type session struct {
	manager *conversation.Manager
	in      io.Reader
	out     io.Writer
}

func newSession(manager *conversation.Manager, in io.Reader, out io.Writer) *session {
	return &session{manager: manager, in: in, out: out}
}

// Run performs the initial search and then serves commands until EOF,
// /quit or ctx is cancelled. Request failures are reported and the
// session continues with its previous state.
func (s *session) Run(ctx context.Context) error {
	s.do(ctx, s.manager.SubmitSearch)

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/search":
			s.do(ctx, s.manager.SubmitSearch)
		case line == "/form":
			s.printForm(s.manager.Snapshot().Form)
		case strings.HasPrefix(line, "/filter"):
			ref := strings.TrimSpace(strings.TrimPrefix(line, "/filter"))
			if ref == "" {
				fmt.Fprintln(s.out, "usage: /filter N")
				continue
			}
			s.do(ctx, func(ctx context.Context) (*conversation.Outcome, error) {
				return s.manager.ApplyFilter(ctx, ref)
			})
		case strings.HasPrefix(line, "/"):
			fmt.Fprintf(s.out, "unknown command %s\n", line)
		default:
			s.do(ctx, func(ctx context.Context) (*conversation.Outcome, error) {
				return s.manager.SendMessage(ctx, line)
			})
		}
	}
}

func (s *session) do(ctx context.Context, call func(context.Context) (*conversation.Outcome, error)) {
	outcome, err := call(ctx)
	if err != nil {
		s.printError(err)
		return
	}
	s.printOutcome(outcome, s.manager.Snapshot())
}

func (s *session) printOutcome(outcome *conversation.Outcome, state conversation.State) {
	if outcome.Reply != "" {
		fmt.Fprintf(s.out, "\nassistant: %s\n", outcome.Reply)
	}

	if len(state.Flights) > 0 {
		fmt.Fprintln(s.out, "\nFlights:")
		for i, f := range state.Flights {
			fmt.Fprintf(s.out, "  %d. %-18s %-8s %s -> %s  %s  %s  %.2f %s\n",
				i+1, f.Airline, f.FlightNumber, f.DepartureTime, f.ArrivalTime,
				f.Duration, stopsLabel(f.Stops), f.Price, f.Currency)
		}
	}

	if len(state.Filters) > 0 {
		fmt.Fprintln(s.out, "\nSuggested filters:")
		for i, f := range state.Filters {
			fmt.Fprintf(s.out, "  [%d] %s\n", i+1, f.Label)
		}
	}

	if len(outcome.AppliedFields) > 0 {
		fmt.Fprintf(s.out, "\nForm updated: %s\n", strings.Join(outcome.AppliedFields, ", "))
		s.printForm(state.Form)
	}
	if len(outcome.RejectedFields) > 0 {
		fmt.Fprintf(s.out, "Ignored form suggestions: %s\n", strings.Join(outcome.RejectedFields, ", "))
	}
}

func (s *session) printForm(form chat.FormData) {
	returnDate := "-"
	if form.ReturnDate != nil {
		returnDate = *form.ReturnDate
	}
	fmt.Fprintf(s.out, "  %s -> %s, depart %s, return %s\n",
		form.DeparturePlace, form.ReturnPlace, form.DepartureDate, returnDate)
}

func (s *session) printError(err error) {
	var reqErr *conversation.RequestError
	switch {
	case errors.As(err, &reqErr):
		fmt.Fprintf(s.out, "error: %s\n", reqErr.Message)
		for _, f := range reqErr.Fields {
			fmt.Fprintf(s.out, "  %s %s\n", f.Path, f.Reason)
		}
	default:
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "direct"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
