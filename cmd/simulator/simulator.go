package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/protocol"
)

type SimulatorConfig struct {
	ServerURL string
	Email     string
	Secret    string
	Company   string
	Role      string
	Questions []string
}

// Simulator drives one interview over the framed websocket protocol. Reply
// frames arrive in completion order; the simulator buffers them and prints
// in ordinal order, releasing each utterance as soon as it is contiguous.
type Simulator struct {
	config *SimulatorConfig
	conn   *websocket.Conn
	log    *zap.Logger

	mu      sync.Mutex
	pending map[int]string
	next    int

	turnDone chan struct{}
	stopped  chan struct{}
}

func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	return &Simulator{
		config:   config,
		log:      log,
		pending:  make(map[int]string),
		turnDone: make(chan struct{}, 1),
		stopped:  make(chan struct{}),
	}
}

// Connect signs a token, trades it for a ticket and opens the channel.
func (s *Simulator) Connect() error {
	token, err := s.signToken()
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	ticket, err := s.requestTicket(token)
	if err != nil {
		return fmt.Errorf("request ticket: %w", err)
	}
	s.log.Debug("ticket issued", zap.String("ticket", ticket))

	wsURL, err := s.channelURL(ticket, token)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	s.conn = conn

	go s.readFrames()
	return nil
}

func (s *Simulator) signToken() (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   s.config.Email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *Simulator) requestTicket(token string) (string, error) {
	req, err := http.NewRequest(http.MethodPost, s.config.ServerURL+"/api/v1/interview/request-connection", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request-connection: %s: %s", resp.Status, body)
	}

	var out struct {
		Ticket string `json:"ticket"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.Ticket, nil
}

func (s *Simulator) channelURL(ticket, token string) (string, error) {
	base, err := url.Parse(s.config.ServerURL)
	if err != nil {
		return "", err
	}
	switch base.Scheme {
	case "https":
		base.Scheme = "wss"
	default:
		base.Scheme = "ws"
	}
	base.Path = "/ws/interview"
	q := base.Query()
	q.Set("ticket", ticket)
	q.Set("token", token)
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// Run starts the interview and then relays stdin replies until /end.
func (s *Simulator) Run() {
	questions := make([]protocol.Value, 0, len(s.config.Questions))
	for _, q := range s.config.Questions {
		questions = append(questions, protocol.String(q))
	}
	s.sendFrame(protocol.MessageClientText, map[string]protocol.Value{
		"company":   protocol.String(s.config.Company),
		"role":      protocol.String(s.config.Role),
		"questions": protocol.Array(questions...),
	})
	s.awaitTurn()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/end" {
			s.sendFrame(protocol.MessageClientText, map[string]protocol.Value{
				"end": protocol.Bool(true),
			})
			s.awaitTurn()
			break
		}

		s.sendFrame(protocol.MessageClientText, map[string]protocol.Value{
			"message": protocol.String(line),
		})
		s.awaitTurn()
	}

	s.Stop()
}

func (s *Simulator) awaitTurn() {
	select {
	case <-s.turnDone:
	case <-s.stopped:
	case <-time.After(2 * time.Minute):
		fmt.Println("[turn timed out]")
	}
}

func (s *Simulator) sendFrame(kind protocol.MessageKind, data map[string]protocol.Value) {
	frame, err := protocol.Encode(kind, data, nil)
	if err != nil {
		s.log.Error("encode frame", zap.Error(err))
		return
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		s.log.Error("write frame", zap.Error(err))
	}
}

func (s *Simulator) readFrames() {
	defer close(s.stopped)
	for {
		messageType, frame, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			s.log.Warn("bad frame", zap.Error(err))
			continue
		}
		s.handleFrame(msg)
	}
}

func (s *Simulator) handleFrame(msg protocol.Message) {
	switch msg.Kind {
	case protocol.MessageAIAudio:
		s.handleReply(msg)
	case protocol.MessageTranscription:
		if text, ok := stringField(msg, "message"); ok {
			fmt.Printf("[transcribed] %s\n", text)
		}
	case protocol.MessageAuthRequest:
		if status, ok := stringField(msg, "status"); ok {
			fmt.Printf("[auth] %s\n", status)
		}
	case protocol.MessageHeartbeat:
		s.log.Debug("heartbeat echoed")
	}
}

func (s *Simulator) handleReply(msg protocol.Message) {
	if errText, ok := stringField(msg, "error"); ok {
		fmt.Printf("[turn error] %s\n", errText)
		s.finishTurn()
		return
	}
	if done, ok := msg.Data["done"].AsBool(); ok && done {
		s.flushPending()
		s.finishTurn()
		return
	}

	order, okOrder := msg.Data["order"].AsNumber()
	text, okText := stringField(msg, "message")
	if !okOrder || !okText {
		return
	}

	s.mu.Lock()
	s.pending[int(order)] = text
	for {
		utterance, ok := s.pending[s.next]
		if !ok {
			break
		}
		delete(s.pending, s.next)
		s.next++
		fmt.Printf("interviewer: %s\n", utterance)
	}
	s.mu.Unlock()
}

// flushPending prints anything still buffered when the turn ends, covering
// gaps left by failed segments.
func (s *Simulator) flushPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.pending) > 0 {
		utterance, ok := s.pending[s.next]
		if ok {
			fmt.Printf("interviewer: %s\n", utterance)
			delete(s.pending, s.next)
		}
		s.next++
	}
}

func (s *Simulator) finishTurn() {
	// Ordinals restart at zero on every turn.
	s.mu.Lock()
	s.pending = make(map[int]string)
	s.next = 0
	s.mu.Unlock()

	select {
	case s.turnDone <- struct{}{}:
	default:
	}
}

func (s *Simulator) Stop() {
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
}

func stringField(msg protocol.Message, key string) (string, bool) {
	value, ok := msg.Data[key]
	if !ok {
		return "", false
	}
	return value.AsString()
}
