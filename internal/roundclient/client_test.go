package roundclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gameshot-quiz-service/internal/domain"
	"github.com/cenkalti/backoff/v4"
)

func TestFetchRoundRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/round" || r.URL.Query().Get("options") != "4" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(sampleRound())
	}))
	defer server.Close()

	client := New(server.URL, time.Second, WithRetries(3), WithBackOff(zeroBackOff))
	round, err := client.FetchRound(context.Background(), 4)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if round.CorrectAnswer != "Alpha" || len(round.Options) != 2 {
		t.Fatalf("unexpected round %+v", round)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestFetchRoundClassifiesFailures(t *testing.T) {
	t.Run("http status is not retried for client errors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := New(server.URL, time.Second, WithBackOff(zeroBackOff)).FetchRound(context.Background(), 4)
		fetchErr := requireFetchError(t, err, domain.FetchHTTPStatus)
		if fetchErr.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", fetchErr.StatusCode)
		}
		if atomic.LoadInt32(&calls) != 1 {
			t.Fatalf("expected a single call, got %d", calls)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		client := New(server.URL, 50*time.Millisecond, WithRetries(0), WithBackOff(zeroBackOff))
		_, err := client.FetchRound(context.Background(), 4)
		requireFetchError(t, err, domain.FetchTimeout)
	})

	t.Run("network", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		client := New(addr, time.Second, WithRetries(1), WithBackOff(zeroBackOff))
		_, err := client.FetchRound(context.Background(), 4)
		requireFetchError(t, err, domain.FetchNetwork)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}))
		defer server.Close()

		_, err := New(server.URL, time.Second, WithBackOff(zeroBackOff)).FetchRound(context.Background(), 4)
		requireFetchError(t, err, domain.FetchUnknown)
	})

	t.Run("round without correct option", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			round := sampleRound()
			round.Options = []string{"Beta"}
			_ = json.NewEncoder(w).Encode(round)
		}))
		defer server.Close()

		_, err := New(server.URL, time.Second, WithBackOff(zeroBackOff)).FetchRound(context.Background(), 4)
		requireFetchError(t, err, domain.FetchUnknown)
	})
}

func requireFetchError(t *testing.T, err error, kind domain.FetchErrorKind) *domain.FetchError {
	t.Helper()
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, fetchErr.Kind, err)
	}
	return fetchErr
}

func zeroBackOff() backoff.BackOff {
	return &backoff.ZeroBackOff{}
}

func sampleRound() domain.RoundContent {
	return domain.RoundContent{
		CorrectEntryID: "1",
		ScreenshotRef:  "alpha.jpg",
		Options:        []string{"Beta", "Alpha"},
		CorrectAnswer:  "Alpha",
	}
}
