// cmd/ping probes a running devhub.
//
// Intended for Docker HEALTHCHECK:
//   HEALTHCHECK CMD ["/ping"]

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort          = 8080
	healthEndpoint       = "/healthz"
	expectedHealthStatus = "ok"
	requestTimeout       = 1 * time.Second

	// exit codes
	codeRequestFailed     = 2
	codeBadHTTPStatus     = 3
	codeDecodeError       = 4
	codeReportedUnhealthy = 5
)

// healthResp mirrors { "status": "ok", "notes": 12 }.
type healthResp struct {
	Status string `json:"status"`
	Notes  int    `json:"notes"`
}

// probeError carries the exit code for a failed probe.
type probeError struct {
	code int
	err  error
}

func (e *probeError) Error() string { return e.err.Error() }

func main() {
	port := detectPort()
	url := fmt.Sprintf("http://localhost:%d%s", port, healthEndpoint)

	h, err := probe(&http.Client{Timeout: requestTimeout}, url)
	if err != nil {
		var pe *probeError
		if errors.As(err, &pe) {
			log.Print(pe)
			os.Exit(pe.code)
		}
		log.Print(err)
		os.Exit(1)
	}

	log.Printf("devhub healthy on port %d, %d notes", port, h.Notes)
}

func probe(client *http.Client, url string) (healthResp, error) {
	var h healthResp

	resp, err := client.Get(url)
	if err != nil {
		return h, &probeError{codeRequestFailed, fmt.Errorf("request failed: %w", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return h, &probeError{codeBadHTTPStatus, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil && !errors.Is(err, io.EOF) {
		return h, &probeError{codeDecodeError, fmt.Errorf("decode error: %w", err)}
	}
	if h.Status != "" && h.Status != expectedHealthStatus {
		return h, &probeError{codeReportedUnhealthy, fmt.Errorf("service reported unhealthy: %q", h.Status)}
	}
	return h, nil
}

// detectPort parses DEVHUB_PORT and falls back to defaultPort.
func detectPort() int {
	if v := os.Getenv("DEVHUB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return defaultPort
}
