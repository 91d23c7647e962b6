package email

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendAuthCode(t *testing.T) {
	var received postmarkEmail
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "https://estoque.test",
		WithHTTPClient(server.Client()), WithAPIURL(server.URL))

	if err := client.SendAuthCode("maria@example.com", "123456", "login"); err != nil {
		t.Fatalf("send auth code: %v", err)
	}
	if gotToken != "test-token" {
		t.Errorf("server token header = %q", gotToken)
	}
	if received.To != "maria@example.com" {
		t.Errorf("To = %q", received.To)
	}
	if !strings.Contains(received.TextBody, "123456") {
		t.Errorf("text body missing code: %q", received.TextBody)
	}
	if !strings.Contains(received.Subject, "código") {
		t.Errorf("subject = %q", received.Subject)
	}
}

func TestSendInviteLink(t *testing.T) {
	var received postmarkEmail
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "https://estoque.test",
		WithHTTPClient(server.Client()), WithAPIURL(server.URL))

	if err := client.SendInviteLink("joao@example.com", "abc123tok", "Maria"); err != nil {
		t.Fatalf("send invite link: %v", err)
	}
	if !strings.Contains(received.TextBody, "https://estoque.test/convite/abc123tok") {
		t.Errorf("text body missing invite link: %q", received.TextBody)
	}
	if !strings.Contains(received.Subject, "Maria") {
		t.Errorf("subject = %q", received.Subject)
	}
}

func TestSendUnconfigured(t *testing.T) {
	client := NewClient("", "noreply@example.com", "https://estoque.test")
	if client.Configured() {
		t.Error("client without token should report unconfigured")
	}
	if err := client.SendAuthCode("maria@example.com", "123456", "login"); err == nil {
		t.Error("expected error from unconfigured client")
	}
}

func TestSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "https://estoque.test",
		WithHTTPClient(server.Client()), WithAPIURL(server.URL))

	if err := client.SendAuthCode("maria@example.com", "123456", "login"); err == nil {
		t.Error("expected error on 4xx response")
	}
}
