package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"caregiver-aptitude-service/internal/app"
	"caregiver-aptitude-service/internal/infra/memory"
	"caregiver-aptitude-service/internal/scoring"
)

func TestWebSocketQuizFlow(t *testing.T) {
	server := httptest.NewServer(newTestMux(newTestService()))
	defer server.Close()

	conn := dial(t, server, scoring.DefaultQuizID)
	defer conn.Close()

	_, payload := readNext(t, conn, "quiz")
	var quiz struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(payload, &quiz); err != nil || len(quiz.Questions) != 10 {
		t.Fatalf("expected quiz with 10 questions, got %s (%v)", payload, err)
	}
	readNext(t, conn, "distribution")

	// Submitting early reports the missing questions.
	send(t, conn, "answer", map[string]any{"questionId": "Q1", "answer": "A"})
	_, payload = readNext(t, conn, "progress")
	var prog progressPayload
	if err := json.Unmarshal(payload, &prog); err != nil || prog.Answered != 1 || len(prog.Missing) != 9 {
		t.Fatalf("unexpected progress %s (%v)", payload, err)
	}
	send(t, conn, "submit", nil)
	_, payload = readNext(t, conn, "error")
	var errPayload errorPayload
	if err := json.Unmarshal(payload, &errPayload); err != nil || len(errPayload.Missing) != 9 {
		t.Fatalf("expected 9 missing questions, got %s (%v)", payload, err)
	}

	for _, q := range scoring.Questions[1:] {
		send(t, conn, "answer", map[string]any{"questionId": q.ID, "answer": "A"})
		readNext(t, conn, "progress")
	}
	send(t, conn, "submit", nil)

	resultSeen := false
	distributionSeen := false
	for i := 0; i < 2; i++ {
		typ, payload := readNext(t, conn, "")
		switch typ {
		case "result":
			var result struct {
				TopScore int `json:"topScore"`
			}
			_ = json.Unmarshal(payload, &result)
			if result.TopScore != 4 {
				t.Fatalf("expected top score 4, got %d", result.TopScore)
			}
			resultSeen = true
		case "distribution":
			distributionSeen = true
		}
	}
	if !resultSeen || !distributionSeen {
		t.Fatalf("expected result and distribution, got result=%v distribution=%v", resultSeen, distributionSeen)
	}
}

func TestWebSocketRejectsUnknownAnswer(t *testing.T) {
	server := httptest.NewServer(newTestMux(newTestService()))
	defer server.Close()

	conn := dial(t, server, scoring.DefaultQuizID)
	defer conn.Close()
	readNext(t, conn, "quiz")
	readNext(t, conn, "distribution")

	send(t, conn, "answer", map[string]any{"questionId": "Q1", "answer": "C"})
	readNext(t, conn, "error")

	send(t, conn, "bogus", nil)
	readNext(t, conn, "error")
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	server := httptest.NewServer(newTestMux(newTestService()))
	defer server.Close()

	conn := dial(t, server, "missing")
	defer conn.Close()
	readNext(t, conn, "error")
}

func TestWebSocketRequiresQuizID(t *testing.T) {
	server := httptest.NewServer(newTestMux(newTestService()))
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func dial(t *testing.T, server *httptest.Server, quizID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?quizId=" + quizID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn, expect string) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%s)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func newTestService() *app.DiagnosisService {
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(scoring.DefaultQuiz()), time.Minute)
	return app.NewDiagnosisService(quizRepo, memory.NewResultStore(), memory.NewFeedStore(), nil)
}

func newTestMux(service *app.DiagnosisService) *http.ServeMux {
	mux := http.NewServeMux()
	NewRESTHandler(service, nil).Register(mux)
	mux.HandleFunc("/ws", NewWSHandler(service, nil).ServeWS)
	return mux
}
