package domain

import (
	"fmt"
	"strings"
)

// Phase is the session's top-level state as declared by the server.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseQuestion Phase = "question"
	PhaseResults  Phase = "results"
	PhaseFinished Phase = "finished"
)

// DefaultAvatar stands in for players missing from a snapshot's player list.
const DefaultAvatar = "👤"

// Player is a participant as reported by the server. Nicknames are unique
// within a session; the host appears in the list like everyone else.
type Player struct {
	Nickname string `json:"nickname" yaml:"nickname"`
	Avatar   string `json:"avatar" yaml:"avatar"`
}

// Question is a single multiple-choice question. The yaml tags let the same
// type load quiz definition files.
type Question struct {
	Text          string   `json:"text" yaml:"text"`
	Options       []string `json:"options" yaml:"options"`
	CorrectOption int      `json:"correct_option" yaml:"correct_option"`
}

// Quiz is a titled, ordered set of questions.
type Quiz struct {
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Validate checks a quiz definition before it is submitted to the server.
func (q Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidQuiz)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(question.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuiz, i+1)
		}
		if len(question.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidQuiz, i+1)
		}
		for j, option := range question.Options {
			if strings.TrimSpace(option) == "" {
				return fmt.Errorf("%w: question %d option %d is empty", ErrInvalidQuiz, i+1, j+1)
			}
		}
		if question.CorrectOption < 0 || question.CorrectOption >= len(question.Options) {
			return fmt.Errorf("%w: question %d correct_option out of range", ErrInvalidQuiz, i+1)
		}
	}
	return nil
}

// Answer is one player's outcome for the current question. TimeTaken is
// seconds elapsed between the question opening and the submission.
type Answer struct {
	IsCorrect bool    `json:"is_correct"`
	TimeTaken float64 `json:"time_taken"`
}

// Snapshot is the full session state the server broadcasts. It is
// self-contained: no deltas and no sequence numbers, only the truth as of
// now, so re-delivery must always be safe for consumers.
type Snapshot struct {
	State                Phase             `json:"state"`
	RoomCode             string            `json:"room_code"`
	Host                 string            `json:"host"`
	Players              []Player          `json:"players"`
	QuizData             *Quiz             `json:"quiz_data,omitempty"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	Answers              map[string]Answer `json:"answers,omitempty"`
}

// Validate enforces the per-phase field contract at the boundary so that
// malformed payloads are rejected before they reach rendering or scoring.
func (s Snapshot) Validate() error {
	switch s.State {
	case PhaseLobby, PhaseFinished:
		return nil
	case PhaseQuestion, PhaseResults:
		if s.QuizData == nil {
			return fmt.Errorf("%w: %s snapshot without quiz_data", ErrMalformedSnapshot, s.State)
		}
		if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.QuizData.Questions) {
			return fmt.Errorf("%w: question index %d out of range", ErrMalformedSnapshot, s.CurrentQuestionIndex)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown state %q", ErrMalformedSnapshot, string(s.State))
	}
}

// CurrentQuestion returns the question the snapshot refers to, if any.
func (s Snapshot) CurrentQuestion() (Question, bool) {
	if s.QuizData == nil || s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.QuizData.Questions) {
		return Question{}, false
	}
	return s.QuizData.Questions[s.CurrentQuestionIndex], true
}

// AnswerMap never returns nil; a snapshot with no answers field reads as an
// empty map.
func (s Snapshot) AnswerMap() map[string]Answer {
	if s.Answers == nil {
		return map[string]Answer{}
	}
	return s.Answers
}

// PlayerAvatar looks up a nickname's avatar, falling back to DefaultAvatar
// when the player list lags behind the answers map.
func (s Snapshot) PlayerAvatar(nickname string) string {
	for _, p := range s.Players {
		if p.Nickname == nickname {
			return p.Avatar
		}
	}
	return DefaultAvatar
}

// NormalizeRoomCode trims and uppercases a room code as typed by a joiner.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
