// Package quiztest provides an in-process quiz server for tests. It mirrors
// the production server's observable behavior: create_quiz returns a room
// code, the first websocket connection to a room becomes the host, actions
// advance the question flow, and every state change broadcasts the full room
// snapshot to all connections.
package quiztest

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"quizo/internal/domain"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CloseRoomNotFound is the close code sent for unknown room codes.
const CloseRoomNotFound = 4000

// Server hosts quiz rooms behind an http.Handler.
type Server struct {
	mu       sync.Mutex
	rooms    map[string]*room
	rnd      *rand.Rand
	upgrader websocket.Upgrader
}

type room struct {
	mu            sync.Mutex
	code          string
	state         domain.Phase
	host          string
	players       []domain.Player
	quiz          domain.Quiz
	questionIndex int
	answers       map[string]domain.Answer
	questionStart time.Time
	conns         map[*conn]struct{}
}

// conn serializes writes to one websocket.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// New returns an empty server.
func New() *Server {
	return &Server{
		rooms: make(map[string]*room),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router exposes the two production endpoints.
func (s *Server) Router() http.Handler {
	router := httprouter.New()
	router.POST("/api/create_quiz", s.handleCreateQuiz)
	router.GET("/ws/:room_code/:nickname", s.handleWS)
	return router
}

// CreateRoom registers a quiz and returns its room code, bypassing HTTP.
func (s *Server) CreateRoom(quiz domain.Quiz) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.newCodeLocked()
	s.rooms[code] = &room{
		code:          code,
		state:         domain.PhaseLobby,
		quiz:          quiz,
		questionIndex: -1,
		answers:       make(map[string]domain.Answer),
		conns:         make(map[*conn]struct{}),
	}
	return code
}

// Rebroadcast re-sends the current room snapshot to every connection, as the
// production server does whenever a new connection joins. Lets tests exercise
// duplicate delivery.
func (s *Server) Rebroadcast(code string) {
	if rm := s.room(code); rm != nil {
		rm.mu.Lock()
		rm.broadcastLocked()
		rm.mu.Unlock()
	}
}

// DropConnections closes every websocket in the room without touching room
// state, simulating a server-side connection loss.
func (s *Server) DropConnections(code string) {
	rm := s.room(code)
	if rm == nil {
		return
	}
	rm.mu.Lock()
	for c := range rm.conns {
		c.ws.Close()
	}
	rm.conns = make(map[*conn]struct{})
	rm.mu.Unlock()
}

func (s *Server) room(code string) *room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[code]
}

func (s *Server) newCodeLocked() string {
	for {
		b := make([]byte, 4)
		for i := range b {
			b[i] = codeAlphabet[s.rnd.Intn(len(codeAlphabet))]
		}
		if _, taken := s.rooms[string(b)]; !taken {
			return string(b)
		}
	}
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var quiz domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		http.Error(w, "bad quiz payload", http.StatusBadRequest)
		return
	}
	code := s.CreateRoom(quiz)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"room_code": code})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	code := domain.NormalizeRoomCode(params.ByName("room_code"))
	nickname := params.ByName("nickname")
	avatar := r.URL.Query().Get("avatar")
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	rm := s.room(code)
	if rm == nil {
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(CloseRoomNotFound, "room not found"))
		ws.Close()
		return
	}

	c := &conn{ws: ws}
	rm.mu.Lock()
	isHost := rm.host == ""
	if isHost {
		rm.host = nickname
	}
	rm.upsertPlayerLocked(domain.Player{Nickname: nickname, Avatar: avatar})
	rm.conns[c] = struct{}{}
	rm.broadcastLocked()
	rm.mu.Unlock()

	defer func() {
		rm.mu.Lock()
		delete(rm.conns, c)
		rm.mu.Unlock()
		ws.Close()
	}()

	for {
		var action domain.Action
		if err := ws.ReadJSON(&action); err != nil {
			return
		}
		rm.apply(nickname, isHost, action)
	}
}

func (rm *room) upsertPlayerLocked(p domain.Player) {
	for i := range rm.players {
		if rm.players[i].Nickname == p.Nickname {
			rm.players[i] = p
			return
		}
	}
	rm.players = append(rm.players, p)
}

func (rm *room) apply(nickname string, isHost bool, action domain.Action) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	switch action.Action {
	case domain.ActionStartQuiz, domain.ActionNextQuestion:
		if !isHost {
			return
		}
		next := 0
		if action.Action == domain.ActionNextQuestion {
			next = rm.questionIndex + 1
		}
		if next < len(rm.quiz.Questions) {
			rm.state = domain.PhaseQuestion
			rm.questionIndex = next
			rm.answers = make(map[string]domain.Answer)
			rm.questionStart = time.Now()
		} else {
			rm.state = domain.PhaseFinished
		}
		rm.broadcastLocked()

	case domain.ActionSubmitAnswer:
		if isHost || rm.state != domain.PhaseQuestion || action.AnswerIndex == nil {
			return
		}
		if _, answered := rm.answers[nickname]; answered {
			return
		}
		question := rm.quiz.Questions[rm.questionIndex]
		rm.answers[nickname] = domain.Answer{
			IsCorrect: *action.AnswerIndex == question.CorrectOption,
			TimeTaken: time.Since(rm.questionStart).Seconds(),
		}
		if len(rm.answers) == len(rm.players)-1 {
			rm.state = domain.PhaseResults
		}
		rm.broadcastLocked()
	}
}

func (rm *room) broadcastLocked() {
	quiz := rm.quiz
	snap := domain.Snapshot{
		State:                rm.state,
		RoomCode:             rm.code,
		Host:                 rm.host,
		Players:              append([]domain.Player(nil), rm.players...),
		QuizData:             &quiz,
		CurrentQuestionIndex: rm.questionIndex,
		Answers:              rm.answers,
	}
	for c := range rm.conns {
		if err := c.writeJSON(snap); err != nil {
			log.Printf("quiztest: broadcast to %s failed: %v", rm.code, err)
		}
	}
}
