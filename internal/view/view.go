// Package view maps (phase, role) to a plain-text surface. It is pure: the
// same view state always renders the same string, and nothing here mutates
// session state.
package view

import (
	"fmt"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"quizo/internal/domain"
	"quizo/internal/ledger"
	"quizo/internal/session"
)

// Render selects the surface for the current phase. Both roles see every
// snapshot field; only the controls differ.
func Render(v session.ViewState) string {
	if !v.Connected {
		return "CONNECTING...\n"
	}
	switch v.Phase {
	case domain.PhaseQuestion:
		return renderQuestion(v)
	case domain.PhaseResults:
		return renderResults(v)
	case domain.PhaseFinished:
		return renderFinished(v)
	default:
		return renderLobby(v)
	}
}

func renderLobby(v session.ViewState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== LOBBY ==\nROOM CODE: %s\n", v.RoomCode)
	if v.IsHost {
		if qr, err := qrcode.New(v.RoomCode, qrcode.Medium); err == nil {
			b.WriteString(qr.ToSmallString(false))
		}
	}
	fmt.Fprintf(&b, "PARTICIPANTS [%d]\n", len(v.Players))
	for _, p := range v.Players {
		fmt.Fprintf(&b, "  %s %s\n", p.Avatar, p.Nickname)
	}
	if v.IsHost {
		if len(v.Players) > 1 {
			b.WriteString("type \"start\" to begin the quiz\n")
		} else {
			b.WriteString("waiting for players to join...\n")
		}
	}
	return b.String()
}

func renderQuestion(v session.ViewState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\nQ%d: %s\n", v.QuizTitle, v.QuestionIndex+1, v.Question.Text)

	if v.IsHost {
		b.WriteString("// Awaiting player responses\n")
	} else {
		for i, option := range v.Question.Options {
			marker := " "
			if v.Selected != nil && *v.Selected == i {
				marker = "*"
			}
			fmt.Fprintf(&b, " %s %d. %s\n", marker, i+1, option)
		}
		if v.AnswerLocked() {
			b.WriteString("answer submitted, waiting for results...\n")
		} else {
			fmt.Fprintf(&b, "type an option number (1-%d) to answer\n", len(v.Question.Options))
		}
	}

	denominator := v.PlayerCount
	if denominator < 1 {
		denominator = 1
	}
	fmt.Fprintf(&b, "ANSWERED [%d/%d]\n", v.AnsweredCount, denominator)
	for _, p := range v.Players {
		if p.Nickname == v.Host {
			continue
		}
		mark := "…"
		if _, ok := v.Answers[p.Nickname]; ok {
			mark = "✓"
		}
		fmt.Fprintf(&b, "  %s %s %s\n", mark, p.Avatar, p.Nickname)
	}
	return b.String()
}

func renderResults(v session.ViewState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== RESULTS ==\n%s\n", v.Question.Text)
	fmt.Fprintf(&b, "The correct answer was: %s\n", v.Question.Options[v.Question.CorrectOption])

	if !v.IsHost && v.MyAnswer != nil {
		if v.MyAnswer.IsCorrect {
			fmt.Fprintf(&b, "Your response was CORRECT [%ss]\n", formatScore(v.MyAnswer.TimeTaken))
		} else {
			b.WriteString("Your response was INCORRECT.\n")
		}
	}

	writeScoreboard(&b, v.Scoreboard)
	if v.IsHost {
		b.WriteString("type \"next\" for the next question\n")
	}
	return b.String()
}

func renderFinished(v session.ViewState) string {
	var b strings.Builder
	b.WriteString("== QUIZ FINISHED ==\nFINAL SCORES\n")
	writeScoreboard(&b, v.Scoreboard)
	return b.String()
}

func writeScoreboard(b *strings.Builder, rows []ledger.Row) {
	b.WriteString("LEADERBOARD\n")
	for _, row := range rows {
		fmt.Fprintf(b, "  %s %s: %s seconds\n", row.Avatar, row.Nickname, formatScore(row.Score))
	}
}

// formatScore rounds only at display time, two decimals as accumulated
// seconds.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
