// Package ledger derives a cumulative score history from session snapshots.
//
// The server never sends score deltas, only the full current state and a
// question index. The reducer reconstructs incremental history from that
// stream: each results snapshot is folded in exactly once in effect, so
// re-broadcasts and post-reconnect re-deliveries cannot double-count.
package ledger

import (
	"sort"

	"quizo/internal/domain"
)

// Entry is one player's accumulated standing. Score is seconds awarded for
// correct answers; it only ever grows within a session.
type Entry struct {
	Score             float64
	Avatar            string
	LastQuestionIndex int
}

// Ledger maps nickname to Entry. A nil Ledger reads as empty.
type Ledger map[string]Entry

// Apply folds one snapshot into the ledger and returns the result. The
// input is never mutated, so callers may retain earlier ledgers.
//
// A lobby snapshot resets the ledger unconditionally (new session or host
// restart). A results snapshot is scored only if no entry already carries
// its question index; any other phase leaves the ledger untouched.
func Apply(l Ledger, snap domain.Snapshot) Ledger {
	switch snap.State {
	case domain.PhaseLobby:
		return Ledger{}
	case domain.PhaseResults:
		return applyResults(l, snap)
	default:
		return l
	}
}

func applyResults(l Ledger, snap domain.Snapshot) Ledger {
	// The guard is global across the ledger, not per player: one entry
	// stamped with this index means the whole snapshot was already folded in.
	for _, entry := range l {
		if entry.LastQuestionIndex == snap.CurrentQuestionIndex {
			return l
		}
	}

	next := make(Ledger, len(l)+len(snap.Answers))
	for nickname, entry := range l {
		next[nickname] = entry
	}
	for nickname, answer := range snap.AnswerMap() {
		entry, ok := next[nickname]
		if !ok {
			entry = Entry{Avatar: snap.PlayerAvatar(nickname)}
		}
		if answer.IsCorrect {
			entry.Score += answer.TimeTaken
		}
		entry.LastQuestionIndex = snap.CurrentQuestionIndex
		next[nickname] = entry
	}
	return next
}

// Row is one scoreboard line. Score is formatted at display time only; the
// ledger itself accumulates unrounded.
type Row struct {
	Nickname string
	Avatar   string
	Score    float64
}

// Rows returns scoreboard rows sorted ascending by score: time is awarded
// only for correct answers, so a smaller accumulated total means faster
// correct answers and sorts first. Ties break by nickname.
func (l Ledger) Rows() []Row {
	rows := make([]Row, 0, len(l))
	for nickname, entry := range l {
		rows = append(rows, Row{Nickname: nickname, Avatar: entry.Avatar, Score: entry.Score})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score < rows[j].Score
		}
		return rows[i].Nickname < rows[j].Nickname
	})
	return rows
}
