package emailjs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/thehubfc/prediction-league/internal/domain/notification"
	"github.com/thehubfc/prediction-league/internal/platform/resilience"
)

func TestNotifyRound_SendsOneEmailPerRecipient(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := make(map[string]map[string]any)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/api/v1.0/email/send" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req map[string]any
		if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if req["service_id"] != "service-1" {
			t.Errorf("unexpected service_id: %v", req["service_id"])
		}
		if req["template_id"] != "tmpl-final" {
			t.Errorf("unexpected template_id: %v", req["template_id"])
		}

		params, _ := req["template_params"].(map[string]any)
		email, _ := params["to_email"].(string)
		mu.Lock()
		seen[email] = params
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		ServiceID:      "service-1",
		PublicKey:      "pub-key",
		TemplateActive: "tmpl-active",
		TemplateFinal:  "tmpl-final",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	info := notification.RoundInfo{
		RoundNumber:     3,
		CompetitionName: "Eliteserien 2026",
		Deadline:        time.Date(2026, 4, 20, 16, 0, 0, 0, time.UTC),
		WinnerNames:     []string{"Ola Berg", "Nina Strand"},
	}
	recipients := []notification.Recipient{
		{UserID: "user-1", Name: "Ola Berg", Email: "ola@example.com"},
		{UserID: "user-2", Name: "Nina Strand", Email: "nina@example.com"},
	}

	result, err := client.NotifyRound(context.Background(), notification.KindRoundFinal, info, recipients)
	if err != nil {
		t.Fatalf("notify round failed: %v", err)
	}
	if result.Sent != 2 {
		t.Fatalf("expected 2 sent, got %d", result.Sent)
	}
	if result.Failed != 0 {
		t.Fatalf("expected 0 failed, got %d", result.Failed)
	}

	mu.Lock()
	defer mu.Unlock()
	params, ok := seen["ola@example.com"]
	if !ok {
		t.Fatalf("no email captured for ola@example.com")
	}
	if params["to_name"] != "Ola Berg" {
		t.Fatalf("unexpected to_name: %v", params["to_name"])
	}
	if params["round_number"] != "3" {
		t.Fatalf("unexpected round_number: %v", params["round_number"])
	}
	if params["winners"] != "Ola Berg og Nina Strand" {
		t.Fatalf("unexpected winners: %v", params["winners"])
	}
}

func TestNotifyRound_CountsFailuresWithoutError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		ServiceID:      "service-1",
		TemplateActive: "tmpl-active",
		TemplateFinal:  "tmpl-final",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	recipients := []notification.Recipient{
		{UserID: "user-1", Name: "Ola Berg", Email: "ola@example.com"},
		{UserID: "user-2", Name: "Nina Strand", Email: "nina@example.com"},
	}

	result, err := client.NotifyRound(context.Background(), notification.KindRoundActive, notification.RoundInfo{RoundNumber: 1}, recipients)
	if err != nil {
		t.Fatalf("notify round failed: %v", err)
	}
	if result.Sent != 0 {
		t.Fatalf("expected 0 sent, got %d", result.Sent)
	}
	if result.Failed != 2 {
		t.Fatalf("expected 2 failed, got %d", result.Failed)
	}
}

func TestNotifyRound_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		ServiceID:      "service-1",
		TemplateActive: "tmpl-active",
		TemplateFinal:  "tmpl-final",
		MaxRetries:     1,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	recipients := []notification.Recipient{
		{UserID: "user-1", Name: "Ola Berg", Email: "ola@example.com"},
	}

	result, err := client.NotifyRound(context.Background(), notification.KindRoundActive, notification.RoundInfo{RoundNumber: 1}, recipients)
	if err != nil {
		t.Fatalf("notify round failed: %v", err)
	}
	if result.Sent != 1 {
		t.Fatalf("expected 1 sent after retry, got %d", result.Sent)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected 2 requests, got %d", calls)
	}
}

func TestNotifyRound_UnknownKind(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		ServiceID:      "service-1",
		TemplateActive: "tmpl-active",
		TemplateFinal:  "tmpl-final",
	})

	_, err := client.NotifyRound(context.Background(), notification.Kind("bogus"), notification.RoundInfo{}, []notification.Recipient{{UserID: "user-1"}})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestNotifyRound_NoRecipients(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		ServiceID:      "service-1",
		TemplateActive: "tmpl-active",
		TemplateFinal:  "tmpl-final",
	})

	result, err := client.NotifyRound(context.Background(), notification.KindRoundActive, notification.RoundInfo{}, nil)
	if err != nil {
		t.Fatalf("notify round failed: %v", err)
	}
	if result.Sent != 0 || result.Failed != 0 {
		t.Fatalf("expected zero result, got %+v", result)
	}
}

func TestJoinWinners(t *testing.T) {
	t.Parallel()

	cases := []struct {
		names []string
		want  string
	}{
		{nil, ""},
		{[]string{"Ola Berg"}, "Ola Berg"},
		{[]string{"Ola Berg", "Nina Strand"}, "Ola Berg og Nina Strand"},
		{[]string{"Ola Berg", "Nina Strand", "Per Haug"}, "Ola Berg, Nina Strand og Per Haug"},
	}

	for _, tc := range cases {
		if got := joinWinners(tc.names); got != tc.want {
			t.Fatalf("joinWinners(%v)=%q, want %q", tc.names, got, tc.want)
		}
	}
}
