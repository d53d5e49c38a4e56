package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"book-scanner/backend/internal/apierr"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})
}

func writeCompletion(w http.ResponseWriter, content string) {
	json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
}

func TestChatCompletionSendsBearerAndMessages(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		writeCompletion(w, "hello back")
	})

	out, err := client.ChatCompletion(context.Background(), "hello", "be brief")
	require.NoError(t, err)
	assert.Equal(t, "hello back", out)
	assert.Equal(t, "Bearer test-key", gotAuth)

	body := gjson.ParseBytes(gotBody)
	assert.Equal(t, "system", body.Get("messages.0.role").String())
	assert.Equal(t, "be brief", body.Get("messages.0.content").String())
	assert.Equal(t, "user", body.Get("messages.1.role").String())
	assert.Equal(t, "hello", body.Get("messages.1.content").String())
	assert.Equal(t, float64(ChatTemperature), body.Get("temperature").Float())
	assert.Equal(t, int64(ChatMaxTokens), body.Get("max_tokens").Int())
}

func TestChatCompletionOmitsEmptySystemPrompt(t *testing.T) {
	var gotBody []byte
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		writeCompletion(w, "ok")
	})

	_, err := client.ChatCompletion(context.Background(), "hello", "")
	require.NoError(t, err)

	messages := gjson.ParseBytes(gotBody).Get("messages").Array()
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].Get("role").String())
}

func TestAnalyzeImageEmbedsDataURL(t *testing.T) {
	var gotBody []byte
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		writeCompletion(w, "a bookshelf")
	})

	out, err := client.AnalyzeImage(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "what is this?")
	require.NoError(t, err)
	assert.Equal(t, "a bookshelf", out)

	body := gjson.ParseBytes(gotBody)
	parts := body.Get("messages.0.content").Array()
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Get("type").String())
	assert.Equal(t, "what is this?", parts[0].Get("text").String())
	assert.Equal(t, "image_url", parts[1].Get("type").String())
	assert.Contains(t, parts[1].Get("image_url.url").String(), "data:image/jpeg;base64,")
}

func TestScanBookshelfUsesExtractionPrompts(t *testing.T) {
	var gotBody []byte
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		writeCompletion(w, `[{"title":"Dune"}]`)
	})

	out, err := client.ScanBookshelf(context.Background(), []byte("not-an-image"))
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Dune"}]`, out)

	body := gjson.ParseBytes(gotBody)
	assert.Equal(t, "system", body.Get("messages.0.role").String())
	assert.Equal(t, ScanSystemPrompt, body.Get("messages.0.content").String())
	assert.Equal(t, int64(ScanMaxTokens), body.Get("max_tokens").Int())
}

func TestExtractTitlesUsesLowTemperature(t *testing.T) {
	var gotBody []byte
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		writeCompletion(w, `["Dune"]`)
	})

	_, err := client.ExtractTitles(context.Background(), []byte("not-an-image"))
	require.NoError(t, err)

	body := gjson.ParseBytes(gotBody)
	assert.Equal(t, float64(TitlesTemperature), body.Get("temperature").Float())
	assert.Equal(t, int64(TitlesMaxTokens), body.Get("max_tokens").Int())
}

func TestCompletionTimeoutMapsTo408(t *testing.T) {
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeCompletion(w, "too late")
	})

	messages := []map[string]any{{"role": "user", "content": "hi"}}
	_, err := client.completion(context.Background(), messages, 0.7, 100, 20*time.Millisecond)
	require.Error(t, err)

	var ae *apierr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apierr.KindTimeout, ae.Kind)
	assert.Equal(t, http.StatusRequestTimeout, ae.Status)
}

func TestCompletionUpstreamErrorPreservesStatusAndMessage(t *testing.T) {
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	})

	_, err := client.ChatCompletion(context.Background(), "hi", "")
	require.Error(t, err)

	var ae *apierr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apierr.KindTransport, ae.Kind)
	assert.Equal(t, http.StatusTooManyRequests, ae.Status)
	assert.Equal(t, "Rate limit reached", ae.Message)
}

func TestCompletionNoChoicesIsMalformed(t *testing.T) {
	client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.ChatCompletion(context.Background(), "hi", "")
	require.Error(t, err)

	var ae *apierr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apierr.KindMalformed, ae.Kind)
}
