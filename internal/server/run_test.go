package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, zaptest.NewLogger(t), listener, DefaultConfig(), "9.9.9")
	}()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + listener.Addr().String() + "/api/version")
	if err != nil {
		cancel()
		t.Fatalf("request failed: %v", err)
	}
	var body map[string]string
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	_ = resp.Body.Close()
	if decodeErr != nil {
		cancel()
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if body["version"] != "9.9.9" {
		t.Errorf("expected version 9.9.9, got %q", body["version"])
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestRunInvalidAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "256.0.0.1:-1"
	if err := Run(context.Background(), nil, cfg, "test"); err == nil {
		t.Fatal("expected listen error")
	}
}
