package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"quizo/internal/config"
	"quizo/internal/domain"
	"quizo/internal/session"
	"quizo/internal/transport/ws"
	"quizo/internal/view"
)

// runPlay drives one connected session. A single goroutine owns all session
// mutation: it reacts to each inbound snapshot and each user intent in turn,
// so two snapshots are never reconciled concurrently.
func runPlay(ctx context.Context, cfg config.Config, room, nickname, avatar string) error {
	sess := session.New(strings.TrimSpace(nickname))

	client, err := ws.Dial(ctx, wsConfig(cfg), room, nickname, avatar)
	if err != nil {
		return err
	}
	defer client.Close()

	intents := make(chan string)
	go readIntents(ctx, os.Stdin, intents)

	out := os.Stdout
	// Dial succeeded, show the lobby before the first snapshot lands.
	fmt.Fprint(out, view.Render(sess.View()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-client.Snapshots():
			if !ok {
				return nil
			}
			if err := sess.Observe(snap); err != nil {
				log.Printf("ignoring snapshot: %v", err)
				continue
			}
			fmt.Fprint(out, view.Render(sess.View()))
		case line, ok := <-intents:
			if !ok {
				return nil
			}
			if quit := handleIntent(sess, client, line); quit {
				return nil
			}
		}
	}
}

// handleIntent encodes a user intent into an outbound action. No legality
// checks happen here beyond the UI's own answer gate: the server ignores
// illegal actions.
func handleIntent(sess *session.Session, client *ws.Client, line string) (quit bool) {
	switch line = strings.ToLower(strings.TrimSpace(line)); line {
	case "q", "quit", "exit":
		return true
	case "start":
		send(client, domain.StartQuiz())
	case "next":
		send(client, domain.NextQuestion())
	case "":
	default:
		n, err := strconv.Atoi(line)
		if err != nil {
			return false
		}
		v := sess.View()
		if v.Phase != domain.PhaseQuestion || v.Question == nil || v.AnswerLocked() {
			return false
		}
		if n < 1 || n > len(v.Question.Options) {
			return false
		}
		sess.MarkSelected(n - 1)
		send(client, domain.SubmitAnswer(n-1))
	}
	return false
}

func send(client *ws.Client, action domain.Action) {
	if err := client.Send(action); err != nil {
		log.Printf("action %s not sent: %v", action.Action, err)
	}
}

// readIntents forwards stdin lines until EOF or cancellation.
func readIntents(ctx context.Context, r io.Reader, intents chan<- string) {
	defer close(intents)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case intents <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

func wsConfig(cfg config.Config) ws.Config {
	return ws.Config{
		BaseURL:        cfg.Server.WSBaseURL,
		InitialBackoff: config.Duration(cfg.Reconnect.InitialBackoff, 500*time.Millisecond),
		MaxBackoff:     config.Duration(cfg.Reconnect.MaxBackoff, 15*time.Second),
	}
}
