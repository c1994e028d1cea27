package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/eduhub/classroom/internal/adapters/http"
	"github.com/eduhub/classroom/internal/app"
	"github.com/eduhub/classroom/internal/app/orch"
	"github.com/eduhub/classroom/internal/config"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/identity"
	"github.com/eduhub/classroom/internal/repository/memory"
)

func setupServer(t *testing.T) (*httptest.Server, *memory.Repository) {
	t.Helper()

	repo := memory.NewRepository()
	repo.PutUser(&domain.Identity{ID: "t1", Name: "Mr. Hall", Role: domain.RoleTeacher})
	repo.PutUser(&domain.Identity{ID: "s1", Name: "Sam", Role: domain.RoleStudent})
	repo.PutToken("teacher-token", "t1")
	repo.PutToken("student-token", "s1")

	o := orch.New(app.NewPresence(), app.NewRoomSet(), app.SimplePolicy{}, repo, repo, repo)
	resolver := identity.NewStoreResolver(repo, repo)

	cfg := &config.Config{Mode: "release", ReadLimit: 32768}
	r := router.SetupRouter(context.Background(), cfg, o, resolver)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/meetings?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

// waitFor reads frames until one with the wanted type arrives.
func waitFor(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		var m map[string]any
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		if m["type"] == typ {
			return m
		}
	}
}

func createMeeting(t *testing.T, srv *httptest.Server, token string, waitingRoom bool) string {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"title":       "Algebra",
		"waitingRoom": waitingRoom,
	})
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/meetings", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var meeting domain.Meeting
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&meeting))
	return string(meeting.ID)
}

func TestUnauthenticatedRequestsAreRefused(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/meetings")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/meetings"
	_, wsResp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, wsResp)
	assert.Equal(t, http.StatusUnauthorized, wsResp.StatusCode)
}

func TestMeetingREST(t *testing.T) {
	srv, _ := setupServer(t)

	id := createMeeting(t, srv, "teacher-token", true)
	assert.NotEmpty(t, id)

	// Students cannot create meetings.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/meetings", strings.NewReader(`{"title":"x"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer student-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/meetings/"+id, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer student-token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWaitingRoomFlowOverWebsocket(t *testing.T) {
	srv, _ := setupServer(t)
	meetingID := createMeeting(t, srv, "teacher-token", true)

	teacher := dialWS(t, srv, "teacher-token")
	sendEvent(t, teacher, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	joined := waitFor(t, teacher, "meeting-joined")
	assert.Equal(t, "joined", joined["status"])

	student := dialWS(t, srv, "student-token")
	sendEvent(t, student, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	joined = waitFor(t, student, "meeting-joined")
	assert.Equal(t, "waiting", joined["status"])

	waiting := waitFor(t, teacher, "user-waiting")
	assert.Equal(t, "s1", waiting["userId"])
	assert.Equal(t, "Sam", waiting["userName"])

	sendEvent(t, teacher, map[string]any{"type": "admit-user", "meetingId": meetingID, "userId": "s1"})
	admitted := waitFor(t, student, "admitted-to-meeting")
	assert.Equal(t, meetingID, admitted["meetingId"])
	waitFor(t, teacher, "user-joined")
}

func TestChatAndReactionsOverWebsocket(t *testing.T) {
	srv, _ := setupServer(t)
	meetingID := createMeeting(t, srv, "teacher-token", false)

	teacher := dialWS(t, srv, "teacher-token")
	sendEvent(t, teacher, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	waitFor(t, teacher, "meeting-joined")

	student := dialWS(t, srv, "student-token")
	sendEvent(t, student, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	waitFor(t, student, "meeting-joined")
	waitFor(t, teacher, "user-joined")

	sendEvent(t, student, map[string]any{"type": "send-message", "meetingId": meetingID, "message": "hello"})
	msg := waitFor(t, teacher, "new-message")
	assert.Equal(t, "hello", msg["message"])
	assert.Equal(t, "Sam", msg["userName"])

	sendEvent(t, student, map[string]any{"type": "react", "meetingId": meetingID, "emoji": "🎉"})
	reaction := waitFor(t, teacher, "reaction")
	assert.Equal(t, "🎉", reaction["emoji"])
}

func TestRemovedStudentCannotRejoin(t *testing.T) {
	srv, _ := setupServer(t)
	meetingID := createMeeting(t, srv, "teacher-token", false)

	teacher := dialWS(t, srv, "teacher-token")
	sendEvent(t, teacher, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	waitFor(t, teacher, "meeting-joined")

	student := dialWS(t, srv, "student-token")
	sendEvent(t, student, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	waitFor(t, student, "meeting-joined")

	sendEvent(t, teacher, map[string]any{"type": "remove-user", "meetingId": meetingID, "userId": "s1"})
	waitFor(t, student, "removed-from-meeting")

	sendEvent(t, student, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	errEvent := waitFor(t, student, "error")
	assert.Contains(t, errEvent["message"], "removed")
}

func TestSignalingRelayOverWebsocket(t *testing.T) {
	srv, _ := setupServer(t)
	meetingID := createMeeting(t, srv, "teacher-token", false)

	teacher := dialWS(t, srv, "teacher-token")
	sendEvent(t, teacher, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	waitFor(t, teacher, "meeting-joined")

	student := dialWS(t, srv, "student-token")
	sendEvent(t, student, map[string]any{"type": "join-meeting", "meetingId": meetingID})
	waitFor(t, student, "meeting-joined")

	sendEvent(t, student, map[string]any{"type": "ready-for-webrtc", "meetingId": meetingID})
	ready := waitFor(t, teacher, "user-ready-for-webrtc")
	assert.Equal(t, "s1", ready["userId"])

	sendEvent(t, teacher, map[string]any{
		"type":         "webrtc-offer",
		"meetingId":    meetingID,
		"targetUserId": "s1",
		"offer":        map[string]any{"type": "offer", "sdp": "v=0"},
	})
	offer := waitFor(t, student, "webrtc-offer")
	assert.Equal(t, "t1", offer["fromUserId"])
	payload := offer["offer"].(map[string]any)
	assert.Equal(t, "v=0", payload["sdp"])
}

func TestNotificationPush(t *testing.T) {
	srv, repo := setupServer(t)

	student := dialWS(t, srv, "student-token")
	teacher := dialWS(t, srv, "teacher-token")

	// A pong round-trip guarantees the student session is registered before
	// the notification is pushed.
	sendEvent(t, student, map[string]any{"type": "ping"})
	waitFor(t, student, "pong")

	sendEvent(t, teacher, map[string]any{
		"type":        "send-notification",
		"recipientId": "s1",
		"notification": map[string]any{
			"type":    "meeting",
			"title":   "Class starts soon",
			"message": "Algebra begins in 5 minutes",
		},
	})

	pushed := waitFor(t, student, "notification")
	n := pushed["notification"].(map[string]any)
	assert.Equal(t, "Class starts soon", n["title"])

	stored, err := repo.ListNotifications(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
