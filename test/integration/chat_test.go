package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorlink/test/helpers"
)

func TestChatRestMirror(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()
	ts.ClearTables(t)

	aliceToken, _ := ts.RegisterUser(t, helpers.UniqueEmail("alice"), "Alice")
	bobToken, bobID := ts.RegisterUser(t, helpers.UniqueEmail("bob"), "Bob")

	// идемпотентный повтор схлопывается в одно сообщение
	payload := map[string]string{
		"recipient_id":    bobID,
		"content":         "are you there?",
		"idempotency_key": "rest-key-1",
	}
	resp, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", aliceToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var first struct {
		ID        string `json:"id"`
		Duplicate bool   `json:"duplicate"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &first))
	assert.False(t, first.Duplicate)

	resp, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", aliceToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var second struct {
		ID        string `json:"id"`
		Duplicate bool   `json:"duplicate"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &second))
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Duplicate)

	// у Боба одно непрочитанное
	resp, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/unread-count", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unread struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &unread))
	assert.Equal(t, int64(1), unread.UnreadCount)

	// Боб отмечает прочитанным
	resp, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/read", bobToken,
		map[string][]string{"message_ids": {first.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/unread-count", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &unread))
	assert.Equal(t, int64(0), unread.UnreadCount)

	// сообщение самому себе отклоняется
	selfID := bobID
	resp, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", bobToken,
		map[string]string{"recipient_id": selfID, "content": "talking to myself"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
