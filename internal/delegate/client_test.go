// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package delegate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		writeAnswer(w, answer)
	}))
}

func writeAnswer(w http.ResponseWriter, answer string) {
	w.Header().Set("Content-Type", "application/json")
	resp := chatResponse{}
	resp.Choices = make([]struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}, 1)
	resp.Choices[0].Message.Content = answer
	json.NewEncoder(w).Encode(resp)
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(Options{
		BaseURL: serverURL,
		Model:   "test-model",
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	return client
}

func TestAsk_Institutional(t *testing.T) {
	server := answerServer(t, "INSTITUTIONAL")
	defer server.Close()

	descriptive, err := newTestClient(t, server.URL).Ask(context.Background(),
		"at National Taiwan University", "taiwan")
	require.NoError(t, err)
	assert.False(t, descriptive)
}

func TestAsk_Descriptive(t *testing.T) {
	server := answerServer(t, "The usage here is DESCRIPTIVE.")
	defer server.Close()

	descriptive, err := newTestClient(t, server.URL).Ask(context.Background(),
		"Taiwan is a country", "taiwan")
	require.NoError(t, err)
	assert.True(t, descriptive)
}

func TestAsk_MalformedAnswer(t *testing.T) {
	server := answerServer(t, "I am not sure about this one.")
	defer server.Close()

	_, err := newTestClient(t, server.URL).Ask(context.Background(), "snippet", "equity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed answer")
}

func TestAsk_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeAnswer(w, "DESCRIPTIVE")
	}))
	defer server.Close()

	descriptive, err := newTestClient(t, server.URL).Ask(context.Background(), "snippet", "equity")
	require.NoError(t, err)
	assert.True(t, descriptive)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAsk_PermanentFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Ask(context.Background(), "snippet", "equity")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReview(t *testing.T) {
	server := answerServer(t, "- flagged: indirect reference to restricted theme")
	defer server.Close()

	notes, err := newTestClient(t, server.URL).Review(context.Background(),
		"full document text", []string{"equity", "diversity"})
	require.NoError(t, err)
	assert.Contains(t, notes, "flagged")
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("LEXSCAN_TEST_EMPTY_KEY", "")
	_, err := NewClient(Options{APIKeyEnv: "LEXSCAN_TEST_EMPTY_KEY"})
	require.Error(t, err)
}
