package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/logging"
	"github.com/pion/webrtc/v4"

	"go-meet-signal/client"
	"go-meet-signal/config"
	"go-meet-signal/controllers"
	"go-meet-signal/dto"
	"go-meet-signal/metrics"
	"go-meet-signal/repo"
	"go-meet-signal/service"
	"go-meet-signal/signaling"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	*httptest.Server
	router  *signaling.Router
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, validateMeetings bool) *testServer {
	t.Helper()
	db, err := config.ConnectDatabase(&config.Config{DBDriver: "sqlite3", DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("ConnectDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	meetingService := service.NewMeetingService(repo.NewMeetingRepository(db))
	var directory signaling.MeetingDirectory = signaling.AcceptAnyMeeting{}
	if validateMeetings {
		directory = meetingService
	}
	m := metrics.New()
	router := signaling.NewRouter(signaling.NewRegistry(), signaling.Options{
		Directory: directory,
		Metrics:   m,
		LoggerFactory: &logging.DefaultLoggerFactory{
			Writer:          io.Discard,
			DefaultLogLevel: logging.LogLevelDisabled,
		},
		WriteWait: time.Second,
	})
	ice := &webrtc.Configuration{ICEServers: []webrtc.ICEServer{{URLs: []string{"stun:stun.example.com:3478"}}}}
	signalingService := service.NewSignalingService(router, ice)

	engine := NewRoute(
		controllers.NewMeetingController(meetingService),
		controllers.NewStatusController(service.NewStatusService(repo.NewStatusRepository(db))),
		controllers.NewWebRtcController(signalingService, config.GetWebSocket(), 64*1024),
		m,
	)
	ts := httptest.NewServer(engine)
	t.Cleanup(func() {
		router.Shutdown()
		ts.Close()
	})
	return &testServer{Server: ts, router: router, metrics: m}
}

func (s *testServer) postJSON(t *testing.T, path string, body any, out any) int {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(s.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) getJSON(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(s.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) dial(t *testing.T, meetingID, userID string) *client.Client {
	t.Helper()
	c := client.New(s.URL)
	if err := c.Connect(meetingID, userID); err != nil {
		t.Fatalf("connect %s/%s: %v", meetingID, userID, err)
	}
	t.Cleanup(func() { _ = c.Close() })
	s.waitMembers(t, service.NormalizeCode(meetingID), userID)
	return c
}

func (s *testServer) waitMembers(t *testing.T, meetingID string, want ...string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		got := s.router.Registry().Members(meetingID)
		if containsAll(got, want) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("members=%v, want %v", got, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func containsAll(have, want []string) bool {
	set := map[string]bool{}
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func readFrame(t *testing.T, c *client.Client) string {
	t.Helper()
	select {
	case msg, ok := <-c.Messages():
		if !ok {
			t.Fatalf("socket closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatalf("no frame within 2s")
	}
	return ""
}

func TestMeetingEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	var root map[string]string
	if code := s.getJSON(t, "/api/", &root); code != http.StatusOK || root["message"] == "" {
		t.Fatalf("GET /api/ code=%d body=%v", code, root)
	}

	var created dto.MeetingResponse
	if code := s.postJSON(t, "/api/meetings", map[string]string{"host_name": "Alice"}, &created); code != http.StatusCreated {
		t.Fatalf("create code=%d", code)
	}
	if len(created.MeetingID) != 8 || created.MeetingTitle != service.DefaultMeetingTitle || len(created.Participants) != 0 {
		t.Fatalf("created=%+v", created)
	}

	var joined dto.JoinResponse
	code := s.postJSON(t, "/api/meetings/"+strings.ToLower(created.MeetingID)+"/join",
		map[string]string{"meeting_id": created.MeetingID, "participant_name": "Bob"}, &joined)
	if code != http.StatusOK || joined.Message != "Joined successfully" {
		t.Fatalf("join code=%d body=%+v", code, joined)
	}
	if len(joined.Meeting.Participants) != 1 || joined.Meeting.Participants[0] != "Bob" {
		t.Fatalf("participants=%v", joined.Meeting.Participants)
	}

	var fetched dto.MeetingResponse
	if code := s.getJSON(t, "/api/meetings/"+created.MeetingID, &fetched); code != http.StatusOK || fetched.ID != created.ID {
		t.Fatalf("get code=%d body=%+v", code, fetched)
	}

	var notFound map[string]string
	if code := s.getJSON(t, "/api/meetings/MISSING1", &notFound); code != http.StatusNotFound || notFound["error"] != "Meeting not found" {
		t.Fatalf("missing code=%d body=%v", code, notFound)
	}
	if code := s.postJSON(t, "/api/meetings", map[string]string{}, nil); code != http.StatusBadRequest {
		t.Fatalf("create without host code=%d, want 400", code)
	}
}

func TestStatusEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	var check map[string]any
	if code := s.postJSON(t, "/api/status", map[string]string{"client_name": "web"}, &check); code != http.StatusOK {
		t.Fatalf("create code=%d", code)
	}
	if check["client_name"] != "web" || check["id"] == "" {
		t.Fatalf("check=%v", check)
	}
	var checks []map[string]any
	if code := s.getJSON(t, "/api/status", &checks); code != http.StatusOK || len(checks) != 1 {
		t.Fatalf("list code=%d checks=%v", code, checks)
	}
}

func TestIceServersAndHealth(t *testing.T) {
	s := newTestServer(t, false)

	var ice struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	if code := s.getJSON(t, "/api/ice-servers", &ice); code != http.StatusOK {
		t.Fatalf("ice code=%d", code)
	}
	if len(ice.ICEServers) != 1 || ice.ICEServers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Fatalf("ice=%+v", ice)
	}

	s.dial(t, "ROOM0001", "A")
	var health dto.SignalingStats
	if code := s.getJSON(t, "/health", &health); code != http.StatusOK {
		t.Fatalf("health code=%d", code)
	}
	if health.Rooms != 1 || health.Participants != 1 {
		t.Fatalf("health=%+v", health)
	}

	resp, err := http.Get(s.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `meet_signal_events_total{event="join"} 1`) {
		t.Fatalf("metrics body:\n%s", body)
	}
}

func TestWebSocketSignalingScenario(t *testing.T) {
	s := newTestServer(t, false)
	const room = "ABCD1234"

	a := s.dial(t, room, "A")
	b := s.dial(t, room, "B")

	if got := readFrame(t, a); got != `{"type":"user_joined","user_id":"B","participants":["A","B"]}` {
		t.Fatalf("A got %s", got)
	}

	if err := a.Send(client.NewChat("A", "hi")); err != nil {
		t.Fatalf("send chat: %v", err)
	}
	const chat = `{"type":"chat","user":"A","message":"hi"}`
	if got := readFrame(t, a); got != chat {
		t.Fatalf("A got %s", got)
	}
	if got := readFrame(t, b); got != chat {
		t.Fatalf("B got %s", got)
	}

	offer := `{"type":"offer","target":"A","signal":{"type":"offer","sdp":"v=0"},"user":"B"}`
	if err := b.SendRaw([]byte(offer)); err != nil {
		t.Fatalf("send offer: %v", err)
	}
	if got := readFrame(t, a); got != offer {
		t.Fatalf("A got %s", got)
	}

	if err := b.Send(client.NewMute("B", true)); err != nil {
		t.Fatalf("send mute: %v", err)
	}
	if got := readFrame(t, a); got != `{"type":"mute","user":"B","enabled":true}` {
		t.Fatalf("A got %s", got)
	}

	_ = b.Close()
	if got := readFrame(t, a); got != `{"type":"user_left","user_id":"B","participants":["A"]}` {
		t.Fatalf("A got %s", got)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close A: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.router.Registry().HasRoom(room) {
		if time.Now().After(deadline) {
			t.Fatalf("room %s still registered", room)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketRejectsUnknownMeetingWhenValidating(t *testing.T) {
	s := newTestServer(t, true)

	err := client.New(s.URL).Connect("UNKNOWN1", "A")
	var dialErr *client.DialError
	if !errors.As(err, &dialErr) || dialErr.StatusCode != http.StatusNotFound {
		t.Fatalf("connect err=%v, want 404 DialError", err)
	}
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("connect err=%v, want ErrBadHandshake", err)
	}

	var created dto.MeetingResponse
	s.postJSON(t, "/api/meetings", map[string]string{"host_name": "Alice"}, &created)
	s.dial(t, created.MeetingID, "A")
	if got := s.metrics.Get(metrics.EventJoinRejected); got != 1 {
		t.Fatalf("join_rejected=%d, want 1", got)
	}
}

func TestWebSocketMeetingCodeIsCaseInsensitive(t *testing.T) {
	s := newTestServer(t, true)

	var created dto.MeetingResponse
	s.postJSON(t, "/api/meetings", map[string]string{"host_name": "Alice"}, &created)
	a := s.dial(t, strings.ToLower(created.MeetingID), "A")
	s.dial(t, created.MeetingID, "B")

	want := `{"type":"user_joined","user_id":"B","participants":["A","B"]}`
	if got := readFrame(t, a); got != want {
		t.Fatalf("A got %s, want %s", got, want)
	}
	if got := s.router.Registry().Rooms(); got != 1 {
		t.Fatalf("rooms=%d, want 1", got)
	}
	if s.router.Registry().HasRoom(strings.ToLower(created.MeetingID)) {
		t.Fatalf("lower-case room registered")
	}
}
