package integration

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizo/internal/domain"
	"quizo/internal/quiztest"
	"quizo/internal/session"
	"quizo/internal/transport/api"
	"quizo/internal/transport/ws"
)

type participant struct {
	nickname string
	client   *ws.Client
	sess     *session.Session
}

func (p *participant) observeUntil(t *testing.T, cond func(session.ViewState) bool) session.ViewState {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if v := p.sess.View(); cond(v) {
			return v
		}
		select {
		case snap, ok := <-p.client.Snapshots():
			if !ok {
				t.Fatalf("%s: snapshot stream closed", p.nickname)
			}
			if err := p.sess.Observe(snap); err != nil {
				t.Fatalf("%s: observe: %v", p.nickname, err)
			}
		case <-deadline:
			t.Fatalf("%s: timed out waiting, view %+v", p.nickname, p.sess.View())
		}
	}
}

func connect(t *testing.T, cfg ws.Config, room, nickname, avatar string) *participant {
	t.Helper()
	client, err := ws.Dial(context.Background(), cfg, room, nickname, avatar)
	if err != nil {
		t.Fatalf("dial %s: %v", nickname, err)
	}
	t.Cleanup(client.Close)
	return &participant{nickname: nickname, client: client, sess: session.New(nickname)}
}

func phaseIs(phase domain.Phase) func(session.ViewState) bool {
	return func(v session.ViewState) bool { return v.Connected && v.Phase == phase }
}

func TestFullGameFlow(t *testing.T) {
	srv := quiztest.New()
	httpSrv := httptest.NewServer(srv.Router())
	defer httpSrv.Close()

	quiz := domain.Quiz{
		Title: "Capitals",
		Questions: []domain.Question{
			{Text: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectOption: 0},
			{Text: "Capital of Peru?", Options: []string{"Cusco", "Lima"}, CorrectOption: 1},
		},
	}

	code, err := api.NewClient(httpSrv.URL).CreateQuiz(context.Background(), quiz)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	wsCfg := ws.Config{
		BaseURL:        "ws" + strings.TrimPrefix(httpSrv.URL, "http"),
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
	}

	host := connect(t, wsCfg, code, "hank", "👑")
	host.observeUntil(t, phaseIs(domain.PhaseLobby))

	alice := connect(t, wsCfg, code, "alice", "🚀")
	bob := connect(t, wsCfg, code, "bob", "🐸")

	v := host.observeUntil(t, func(v session.ViewState) bool {
		return len(v.Players) == 3
	})
	if !v.IsHost {
		t.Fatalf("first connection must be the host, got %+v", v)
	}

	// Question 1: alice answers correctly, bob does not.
	if err := host.client.Send(domain.StartQuiz()); err != nil {
		t.Fatalf("start: %v", err)
	}
	alice.observeUntil(t, phaseIs(domain.PhaseQuestion))
	bob.observeUntil(t, phaseIs(domain.PhaseQuestion))

	if err := alice.client.Send(domain.SubmitAnswer(0)); err != nil {
		t.Fatalf("alice answer: %v", err)
	}
	if err := bob.client.Send(domain.SubmitAnswer(1)); err != nil {
		t.Fatalf("bob answer: %v", err)
	}

	v = alice.observeUntil(t, phaseIs(domain.PhaseResults))
	if v.MyAnswer == nil || !v.MyAnswer.IsCorrect {
		t.Fatalf("alice's answer should be correct, got %+v", v.MyAnswer)
	}
	aliceTime := v.MyAnswer.TimeTaken

	if len(v.Scoreboard) != 2 {
		t.Fatalf("expected 2 scoreboard rows, got %+v", v.Scoreboard)
	}
	scores := scoreByName(v)
	if scores["alice"] != aliceTime {
		t.Fatalf("alice's score must equal her answer time: %v vs %v", scores["alice"], aliceTime)
	}
	if scores["bob"] != 0 {
		t.Fatalf("bob answered wrong and must have score 0, got %v", scores["bob"])
	}

	// A server re-broadcast of the same results must not double-count.
	srv.Rebroadcast(code)
	select {
	case snap, ok := <-alice.client.Snapshots():
		if !ok {
			t.Fatalf("alice: snapshot stream closed")
		}
		if err := alice.sess.Observe(snap); err != nil {
			t.Fatalf("alice: observe re-broadcast: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for re-broadcast")
	}
	if got := scoreByName(alice.sess.View())["alice"]; got != aliceTime {
		t.Fatalf("re-broadcast doubled alice's score: %v vs %v", got, aliceTime)
	}

	// Question 2: both answer correctly, scores accumulate.
	if err := host.client.Send(domain.NextQuestion()); err != nil {
		t.Fatalf("next: %v", err)
	}
	alice.observeUntil(t, func(v session.ViewState) bool {
		return v.Phase == domain.PhaseQuestion && v.QuestionIndex == 1
	})
	bob.observeUntil(t, func(v session.ViewState) bool {
		return v.Phase == domain.PhaseQuestion && v.QuestionIndex == 1
	})

	if err := alice.client.Send(domain.SubmitAnswer(1)); err != nil {
		t.Fatalf("alice answer: %v", err)
	}
	if err := bob.client.Send(domain.SubmitAnswer(1)); err != nil {
		t.Fatalf("bob answer: %v", err)
	}

	v = bob.observeUntil(t, phaseIs(domain.PhaseResults))
	scores = scoreByName(v)
	if scores["alice"] <= aliceTime {
		t.Fatalf("alice's score must grow after a second correct answer: %v", scores["alice"])
	}
	if scores["bob"] <= 0 {
		t.Fatalf("bob's correct answer must score, got %v", scores["bob"])
	}

	// Past the last question the session finishes; the ledger survives.
	if err := host.client.Send(domain.NextQuestion()); err != nil {
		t.Fatalf("final next: %v", err)
	}
	v = host.observeUntil(t, phaseIs(domain.PhaseFinished))
	if len(v.Scoreboard) != 2 {
		t.Fatalf("final scoreboard must keep both players, got %+v", v.Scoreboard)
	}
}

func scoreByName(v session.ViewState) map[string]float64 {
	scores := make(map[string]float64, len(v.Scoreboard))
	for _, row := range v.Scoreboard {
		scores[row.Nickname] = row.Score
	}
	return scores
}
