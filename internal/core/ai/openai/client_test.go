package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cooking-assistant/internal/core/ai/provider"
)

func TestComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"gpt-3.5-turbo","choices":[{"index":0,"message":{"role":"assistant","content":"Boil it."},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`))
	}))
	defer srv.Close()

	c := NewClient(provider.Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"})
	if c.GetModel() != "gpt-3.5-turbo" {
		t.Fatalf("default model = %s", c.GetModel())
	}

	resp, err := c.Complete(context.Background(), &provider.Request{
		Messages:  []provider.Message{{Role: provider.RoleSystem, Content: "be brief"}, {Role: provider.RoleUser, Content: "eggs?"}},
		MaxTokens: 150,
	})
	if err != nil {
		t.Fatalf("Complete error = %v", err)
	}
	if resp.Content != "Boil it." || resp.Usage.TotalTokens != 7 {
		t.Fatalf("resp = %+v", resp)
	}
	if body["model"] != "gpt-3.5-turbo" {
		t.Fatalf("model = %v", body["model"])
	}
	if msgs, _ := body["messages"].([]any); len(msgs) != 2 {
		t.Fatalf("messages = %v", body["messages"])
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewClient(provider.Config{APIKey: "bad", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), &provider.Request{}); err == nil {
		t.Fatal("expected error")
	}
}
