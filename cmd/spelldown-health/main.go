// Command spelldown-health probes the /health endpoint of a running server and exits
// non-zero when it is unhealthy. Meant for container health checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/shutdown"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	URL     string        `envconfig:"SPELLDOWN_HEALTH_URL" default:"http://localhost:8080/health"`
	Timeout time.Duration `envconfig:"SPELLDOWN_HEALTH_TIMEOUT" default:"5s"`
}

type OkResponse struct {
	Status string `json:"status"`
}

func main() {
	ctx, cancel := shutdown.New()
	defer cancel()
	logger := logging.FromContext(ctx)

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logger.Fatalf("processing the config: %v", err)
	}

	client := &http.Client{Timeout: config.Timeout}
	status, err := check(ctx, client, config.URL)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stdout, err)
		os.Exit(1)
	}
	_, _ = fmt.Fprintln(os.Stdout, status)
}

func check(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	bytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("read all body bytes: %w", err)
	}

	var ok OkResponse
	if err := json.Unmarshal(bytes, &ok); err != nil {
		return "", fmt.Errorf("body unmarshal: %w", err)
	}
	if ok.Status != "ok" {
		return "", fmt.Errorf("unhealthy status %q", ok.Status)
	}

	return ok.Status, nil
}
