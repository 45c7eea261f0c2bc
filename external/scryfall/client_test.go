package scryfall

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
	"github.com/riskibarqy/commander-stats/internal/platform/resilience"
	"github.com/riskibarqy/commander-stats/internal/usecase"
)

func newTestClient(serverURL string, cb resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        serverURL,
		MaxRetries:     2,
		RetryBackoff:   time.Millisecond,
		PageDelay:      time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: cb,
	})
}

func TestFetchCommanders_FollowsNextPage(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/cards/search":
			if got := r.URL.Query().Get("q"); got != DefaultQuery {
				t.Errorf("unexpected query %q", got)
			}
			if r.Header.Get("User-Agent") == "" {
				t.Errorf("expected user agent header")
			}
			fmt.Fprintf(w, `{"object":"list","total_cards":2,"has_more":true,"next_page":%q,"data":[
				{"oracle_id":"o-1","name":"Atraxa, Grand Unifier","type_line":"Legendary Creature","color_identity":["W","U","B","G"],"image_uris":{"normal":"https://img/atraxa.jpg"}}
			]}`, server.URL+"/page2")
		case "/page2":
			fmt.Fprint(w, `{"object":"list","total_cards":2,"has_more":false,"data":[
				{"name":"Esika, Queen of the Wild // The Prismatic Bridge","layout":"modal_dfc","color_identity":["W","U","B","R","G"],
				 "card_faces":[
					{"oracle_id":"o-2","name":"Esika, Queen of the Wild","type_line":"Legendary Creature","image_uris":{"normal":"https://img/esika.jpg"}},
					{"name":"The Prismatic Bridge","type_line":"Legendary Enchantment","image_uris":{"normal":"https://img/bridge.jpg"}}
				 ]}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cards, err := newTestClient(server.URL, resilience.CircuitBreakerConfig{}).FetchCommanders(context.Background())
	if err != nil {
		t.Fatalf("FetchCommanders error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].OracleID != "o-1" || cards[0].ImageURL != "https://img/atraxa.jpg" {
		t.Fatalf("unexpected first card: %+v", cards[0])
	}
	esika := cards[1]
	if esika.OracleID != "o-2" {
		t.Fatalf("expected oracle id from first face, got %q", esika.OracleID)
	}
	if esika.ImageURL != "https://img/esika.jpg" {
		t.Fatalf("expected image from first face, got %q", esika.ImageURL)
	}
	if esika.TypeLine != "Legendary Creature" {
		t.Fatalf("expected type line from first face, got %q", esika.TypeLine)
	}
	if esika.Name != "Esika, Queen of the Wild // The Prismatic Bridge" {
		t.Fatalf("name should be passed through untouched, got %q", esika.Name)
	}
}

func TestFetchCommanders_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"object":"error","code":"rate_limited","status":429,"details":"slow down"}`)
			return
		}
		fmt.Fprint(w, `{"object":"list","has_more":false,"data":[{"oracle_id":"o-1","name":"Krenko, Mob Boss"}]}`)
	}))
	defer server.Close()

	cards, err := newTestClient(server.URL, resilience.CircuitBreakerConfig{}).FetchCommanders(context.Background())
	if err != nil {
		t.Fatalf("FetchCommanders error: %v", err)
	}
	if len(cards) != 1 || calls.Load() != 2 {
		t.Fatalf("expected one card after one retry, got cards=%d calls=%d", len(cards), calls.Load())
	}
}

func TestFetchCommanders_DoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"object":"error","code":"bad_request","status":400,"details":"query is invalid"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, resilience.CircuitBreakerConfig{}).FetchCommanders(context.Background())
	if err == nil {
		t.Fatalf("expected error for bad request")
	}
	if crerr.Is(err, resilience.ErrRetryable) {
		t.Fatalf("400 should not be retryable: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestFetchCommanders_NotFoundMeansNoCards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"object":"error","code":"not_found","status":404,"details":"no cards found"}`)
	}))
	defer server.Close()

	cards, err := newTestClient(server.URL, resilience.CircuitBreakerConfig{}).FetchCommanders(context.Background())
	if err != nil {
		t.Fatalf("FetchCommanders error: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected no cards, got %d", len(cards))
	}
}

func TestFetchCommanders_OpenBreakerReportsDependencyUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 0,
		PageDelay:  time.Millisecond,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchCommanders(context.Background()); err == nil {
		t.Fatalf("expected first call to fail")
	}
	_, err := client.FetchCommanders(context.Background())
	if !crerr.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("open breaker should short-circuit, got %d calls", calls.Load())
	}
}

func TestFetchCommanders_ClientErrorDoesNotResetBreaker(t *testing.T) {
	statuses := []int{http.StatusBadGateway, http.StatusBadRequest, http.StatusBadGateway, http.StatusOK}
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		w.WriteHeader(statuses[min(n, len(statuses)-1)])
		fmt.Fprint(w, `{"object":"list","has_more":false,"data":[]}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 0,
		PageDelay:  time.Millisecond,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 3; i++ {
		if _, err := client.FetchCommanders(context.Background()); err == nil {
			t.Fatalf("call %d: expected failure", i+1)
		}
	}
	_, err := client.FetchCommanders(context.Background())
	if !crerr.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("two transient failures around a client error should open the breaker, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", calls.Load())
	}
}

func TestFetchCommanders_CancelledContextDoesNotResetBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 0,
		PageDelay:  time.Millisecond,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchCommanders(context.Background()); err == nil {
		t.Fatalf("expected first call to fail")
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.FetchCommanders(cancelled); err == nil {
		t.Fatalf("expected cancelled call to fail")
	}
	if _, err := client.FetchCommanders(context.Background()); err == nil {
		t.Fatalf("expected third call to fail")
	}
	if state := client.breaker.State(); state != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker after two transient failures, got %s", state)
	}
}
