package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/question" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("X-StorageAPI-Token"); got != "secret" {
			t.Errorf("token header = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["query"] != "how to push" {
			t.Errorf("query = %q", body["query"])
		}
		_ = json.NewEncoder(w).Encode(Answer{
			Text:       "Use kbc sync push.",
			SourceURLs: []string{"https://developers.keboola.com/cli/commands/sync/push/"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	answer, err := c.Question(context.Background(), "how to push")
	if err != nil {
		t.Fatalf("Question() failed: %v", err)
	}
	if answer.Text != "Use kbc sync push." || len(answer.SourceURLs) != 1 {
		t.Errorf("answer = %+v", answer)
	}
}

func TestQuestionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad")
	_, err := c.Question(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestQuestionUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "t")
	_, err := c.Question(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error for unreachable service")
	}
}
