package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"caregiver-aptitude-service/internal/app"
	"caregiver-aptitude-service/internal/domain"
	"caregiver-aptitude-service/internal/logger"
)

type WSHandler struct {
	service  *app.DiagnosisService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.DiagnosisService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger.WithFields(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID domain.QuestionID `json:"questionId"`
	Answer     domain.AnswerCode `json:"answer"`
}

type progressPayload struct {
	Answered int                 `json:"answered"`
	Missing  []domain.QuestionID `json:"missing"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz attempt per connection.
// Answers live in the connection and are dropped on submit, reset or disconnect.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}
	log := logger.WithQuiz(h.logger, quizID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	quiz, err := h.service.Quiz(r.Context(), quizID)
	if err != nil {
		_, payload := errorResponse(err)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: payload})
		return
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), quizID)
	if err != nil {
		_, payload := errorResponse(err)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: payload})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				// keep draining so producers never block on a dead connection
				for range send {
				}
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "quiz", Payload: quiz}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "distribution", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	answers := domain.AnswerSet{}
	questions := make(map[domain.QuestionID]domain.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions[q.ID] = q
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if !questions[payload.QuestionID].HasOption(payload.Answer) {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unknown question or answer"}}
				continue
			}
			answers[payload.QuestionID] = payload.Answer
			send <- outboundMessage[any]{Type: "progress", Payload: progress(answers, quiz.Questions)}
		case "reset":
			answers = domain.AnswerSet{}
			send <- outboundMessage[any]{Type: "progress", Payload: progress(answers, quiz.Questions)}
		case "submit":
			diagnosis, err := h.service.Diagnose(r.Context(), quizID, answers)
			if err != nil {
				_, payload := errorResponse(err)
				send <- outboundMessage[any]{Type: "error", Payload: payload}
				continue
			}
			answers = domain.AnswerSet{}
			send <- outboundMessage[any]{Type: "result", Payload: diagnosis}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func progress(answers domain.AnswerSet, questions []domain.Question) progressPayload {
	missing := answers.Missing(questions)
	if missing == nil {
		missing = []domain.QuestionID{}
	}
	return progressPayload{
		Answered: len(questions) - len(missing),
		Missing:  missing,
	}
}
