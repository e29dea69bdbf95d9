package domain

// Outbound action kinds. The server is authoritative: the client encodes
// intents as-is and the server ignores or rejects illegal ones.
const (
	ActionStartQuiz    = "start_quiz"
	ActionSubmitAnswer = "submit_answer"
	ActionNextQuestion = "next_question"
)

// Action is a tagged outbound message. AnswerIndex is only present for
// submit_answer.
type Action struct {
	Action      string `json:"action"`
	AnswerIndex *int   `json:"answer_index,omitempty"`
}

// StartQuiz begins the quiz from the lobby.
func StartQuiz() Action {
	return Action{Action: ActionStartQuiz}
}

// SubmitAnswer selects an option for the current question.
func SubmitAnswer(index int) Action {
	return Action{Action: ActionSubmitAnswer, AnswerIndex: &index}
}

// NextQuestion advances past the current results.
func NextQuestion() Action {
	return Action{Action: ActionNextQuestion}
}
