package ngrok

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

type Config struct {
	// Bin is the path to the ngrok binary.
	Bin string
	// API is the ngrok agent API base url.
	API string
	// Wait is the time to wait between API polls.
	Wait time.Duration
	// Attempts is the number of API polls before giving up.
	Attempts int
}

type tunnelsResponse struct {
	Tunnels []struct {
		Name      string `json:"name"`
		ID        string `json:"id"`
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
		Config    struct {
			Addr string `json:"addr"`
		} `json:"config"`
	} `json:"tunnels"`
}

// Run exposes the local address through an https tunnel and returns its
// public url. The tunnel is closed when the returned cancel func is called or
// the context is done.
func Run(ctx context.Context, cfg *Config, addr string) (string, context.CancelFunc, error) {
	bin := cfg.Bin
	if bin == "" {
		bin = "ngrok"
	}
	api := strings.TrimSuffix(cfg.API, "/")
	if api == "" {
		api = "http://localhost:4040"
	}
	wait := cfg.Wait
	if wait <= 0 {
		wait = 500 * time.Millisecond
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 20
	}
	port := portOf(addr)
	if port == "" {
		return "", nil, fmt.Errorf("ngrok: invalid address %q", addr)
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		cmd := exec.CommandContext(ctx, bin, "http", port)
		data, err := cmd.CombinedOutput()
		if err != nil && ctx.Err() == nil {
			log.Println(fmt.Errorf("ngrok: %w: %s", err, string(data)))
		}
	}()

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		select {
		case <-ctx.Done():
			cancel()
			return "", nil, ctx.Err()
		case <-time.After(wait):
		}
		u, err := tunnel(ctx, client, api, port)
		if err != nil {
			lastErr = err
			continue
		}
		if u != "" {
			return u, cancel, nil
		}
		lastErr = fmt.Errorf("ngrok: no tunnel for port %s", port)
	}
	cancel()
	return "", nil, fmt.Errorf("ngrok: couldn't start: %w", lastErr)
}

func tunnel(ctx context.Context, client *http.Client, api, port string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api+"/api/tunnels", nil)
	if err != nil {
		return "", fmt.Errorf("ngrok: couldn't create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ngrok: couldn't get tunnels: %w", err)
	}
	defer resp.Body.Close()
	var tr tunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("ngrok: couldn't decode tunnels: %w", err)
	}
	for _, t := range tr.Tunnels {
		if portOf(t.Config.Addr) != port {
			continue
		}
		// Telegram only accepts https webhooks
		if strings.HasPrefix(t.PublicURL, "https://") {
			return t.PublicURL, nil
		}
	}
	return "", nil
}

func portOf(addr string) string {
	addr = strings.TrimPrefix(strings.TrimPrefix(addr, "http://"), "https://")
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return ""
}
