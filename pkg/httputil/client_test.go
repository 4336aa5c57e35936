package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSend(t *testing.T) {
	type response struct {
		URL string `json:"url"`
	}

	var gotAuth, gotType, gotCustom string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotCustom = r.Header.Get("X-Custom")
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(response{URL: "https://files.example.com/a.png"})
	}))
	defer server.Close()

	c := NewClient(map[string]string{"Authorization": "Bearer t", "X-Custom": "default"}).WithHTTPClient(server.Client())

	var out response
	err := c.Send(context.Background(), Request{
		Method:      http.MethodPost,
		URL:         server.URL + "/upload",
		Body:        []byte("payload"),
		ContentType: "application/octet-stream",
		Headers:     map[string]string{"X-Custom": "override"},
	}, &out)
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if out.URL != "https://files.example.com/a.png" {
		t.Errorf("decoded url = %q", out.URL)
	}
	if gotAuth != "Bearer t" || gotType != "application/octet-stream" || gotCustom != "override" {
		t.Errorf("headers: auth=%q type=%q custom=%q", gotAuth, gotType, gotCustom)
	}
	if string(gotBody) != "payload" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
		notFound  bool
	}{
		{"not found", http.StatusNotFound, false, true},
		{"bad request", http.StatusBadRequest, false, false},
		{"unauthorized", http.StatusUnauthorized, false, false},
		{"rate limited", http.StatusTooManyRequests, true, false},
		{"server error", http.StatusBadGateway, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			c := NewClient(nil).WithHTTPClient(server.Client())
			_, err := c.do(context.Background(), Request{URL: server.URL})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.As(err, new(*RetryableError)); got != tt.retryable {
				t.Errorf("retryable = %v, want %v (%v)", got, tt.retryable, err)
			}
			if got := errors.Is(err, ErrNotFound); got != tt.notFound {
				t.Errorf("not found = %v, want %v", got, tt.notFound)
			}

			var se *StatusError
			if !tt.notFound && (!errors.As(err, &se) || se.Code != tt.status || se.Body != "nope") {
				t.Errorf("status error = %+v", se)
			}
		})
	}
}

func TestClientRateLimitRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "4")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(nil).WithHTTPClient(server.Client())
	_, err := c.do(context.Background(), Request{URL: server.URL})
	var re *RetryableError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RetryableError", err)
	}
	if re.After != 4*time.Second {
		t.Errorf("After = %v, want 4s", re.After)
	}
}

func TestClientSendNilTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	c := NewClient(nil).WithHTTPClient(server.Client())
	if err := c.Send(context.Background(), Request{Method: http.MethodPost, URL: server.URL}, nil); err != nil {
		t.Errorf("Send() error: %v", err)
	}
}
