package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cgast/netintent/pkg/topology"
)

func completionResponse(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestNewGroqClientRequiresKey(t *testing.T) {
	if _, err := NewGroqClient("", topology.Default()); err == nil {
		t.Fatal("expected error for empty api key")
	}
	if _, err := NewGroqClient("   ", topology.Default()); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestGenerate(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("iptables -I OUTPUT -d 10.0.0.2 -j DROP\n")))
	}))
	defer srv.Close()

	client, err := NewGroqClient("test-key", topology.Default(), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGroqClient: %v", err)
	}

	rule, err := client.Generate(context.Background(), "Block traffic from h1 to h2", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rule != "iptables -I OUTPUT -d 10.0.0.2 -j DROP" {
		t.Errorf("rule = %q", rule)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("model = %q, want %q", gotReq.Model, DefaultModel)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v, want system + user", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "Host h2 | IP: 10.0.0.2") {
		t.Error("system prompt missing addressing table")
	}
	if !strings.Contains(gotReq.Messages[0].Content, "EXACTLY ONE iptables command") {
		t.Error("system prompt missing one-command constraint")
	}
	if gotReq.Messages[1].Content != "User intent: Block traffic from h1 to h2" {
		t.Errorf("user message = %q", gotReq.Messages[1].Content)
	}
}

func TestGenerateWithFeedback(t *testing.T) {
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotUser = req.Messages[len(req.Messages)-1].Content
		w.Write([]byte(completionResponse("iptables -I FORWARD -d 10.0.0.2 -j DROP")))
	}))
	defer srv.Close()

	client, _ := NewGroqClient("test-key", topology.Default(), WithBaseURL(srv.URL))
	feedback := "Expected traffic to be fully blocked between h1 and h2, but after applying the rule, measured 50% packet loss."

	if _, err := client.Generate(context.Background(), "Block traffic from h1 to h2", feedback); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"User intent: Block traffic from h1 to h2",
		"The previous command FAILED in testing",
		"50% packet loss",
		"Generate a different iptables command",
	} {
		if !strings.Contains(gotUser, want) {
			t.Errorf("feedback message missing %q:\n%s", want, gotUser)
		}
	}
}

func TestGenerateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client, _ := NewGroqClient("test-key", topology.Default(), WithBaseURL(srv.URL))
	if _, err := client.Generate(context.Background(), "Block traffic from h1 to h2", ""); err == nil {
		t.Fatal("expected error on 429 response")
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client, _ := NewGroqClient("test-key", topology.Default(), WithBaseURL(srv.URL))
	if _, err := client.Generate(context.Background(), "Block traffic from h1 to h2", ""); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestGenerateFlowRule(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(completionResponse(`{"switch_id":"s1","match_src_ip":"10.0.0.1","match_dst_ip":"10.0.0.2","action":"drop"}`)))
	}))
	defer srv.Close()

	client, _ := NewGroqClient("test-key", topology.Default(), WithBaseURL(srv.URL))
	raw, err := client.GenerateFlowRule(context.Background(), "Block traffic from h1 to h2")
	if err != nil {
		t.Fatalf("GenerateFlowRule: %v", err)
	}

	if len(gotReq.Messages) != 1 {
		t.Fatalf("messages = %d, want single user message", len(gotReq.Messages))
	}
	if !strings.Contains(gotReq.Messages[0].Content, "Only output the JSON") {
		t.Error("prompt missing JSON-only constraint")
	}

	rule, err := DecodeFlowRule(raw)
	if err != nil {
		t.Fatalf("DecodeFlowRule: %v", err)
	}
	if rule.Action != "drop" || rule.SwitchID != "s1" {
		t.Errorf("rule = %+v", rule)
	}
}
