package session

import (
	"quizo/internal/domain"
	"quizo/internal/ledger"
)

// ViewState is an immutable slice of session state for rendering. Every
// snapshot field is visible to both roles; only controls differ by IsHost.
type ViewState struct {
	Connected bool // false until the first snapshot arrives
	Phase     domain.Phase
	Nickname  string
	IsHost    bool

	RoomCode  string
	QuizTitle string
	Host      string
	Players   []domain.Player

	Question      *domain.Question
	QuestionIndex int
	Answers       map[string]domain.Answer
	MyAnswer      *domain.Answer
	HasAnswered   bool // snapshot-driven: answers map contains the local nickname
	Selected      *int // local submission not yet echoed by the server
	AnsweredCount int
	PlayerCount   int // players excluding the host

	Scoreboard []ledger.Row
}

// View derives the current render state under the read lock.
func (s *Session) View() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := ViewState{
		Phase:    domain.PhaseLobby,
		Nickname: s.nickname,
	}
	if s.last == nil {
		return v
	}

	snap := *s.last
	v.Connected = true
	v.Phase = snap.State
	v.IsHost = snap.Host == s.nickname
	v.RoomCode = snap.RoomCode
	v.Host = snap.Host
	v.Players = snap.Players
	v.Answers = snap.AnswerMap()
	v.QuestionIndex = snap.CurrentQuestionIndex
	v.Scoreboard = s.scores.Rows()
	v.Selected = s.selected

	if snap.QuizData != nil {
		v.QuizTitle = snap.QuizData.Title
	}
	if q, ok := snap.CurrentQuestion(); ok {
		v.Question = &q
	}
	if answer, ok := v.Answers[s.nickname]; ok {
		v.HasAnswered = true
		v.MyAnswer = &answer
	}
	v.AnsweredCount = len(v.Answers)
	for _, p := range snap.Players {
		if p.Nickname != snap.Host {
			v.PlayerCount++
		}
	}
	return v
}

// AnswerLocked reports whether the local player may no longer submit: either
// the snapshot already carries their answer or a submission is in flight.
func (v ViewState) AnswerLocked() bool {
	return v.HasAnswered || v.Selected != nil
}
