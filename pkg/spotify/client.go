package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/igolaizola/shazambot/pkg/ratelimit"
)

type Client struct {
	client          *http.Client
	debug           bool
	ratelimit       ratelimit.Lock
	clientID        string
	clientSecret    string
	apiURL          string
	authURL         string
	lock            sync.Mutex
	token           string
	tokenExpiration time.Time
}

type Config struct {
	Wait         time.Duration
	Burst        int
	Debug        bool
	Client       *http.Client
	ClientID     string
	ClientSecret string
	// APIURL and AuthURL override the spotify endpoints.
	APIURL  string
	AuthURL string
}

func New(cfg *Config) *Client {
	wait := cfg.Wait
	if wait == 0 {
		wait = 1 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout: 2 * time.Minute,
		}
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.spotify.com/v1"
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = "https://accounts.spotify.com/api/token"
	}
	return &Client{
		client:       client,
		ratelimit:    ratelimit.New(wait, cfg.Burst),
		debug:        cfg.Debug,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		apiURL:       strings.TrimSuffix(apiURL, "/"),
		authURL:      authURL,
	}
}

// Start checks the credentials.
func (c *Client) Start(ctx context.Context) error {
	if c.clientID == "" || c.clientSecret == "" {
		return errors.New("spotify: missing client credentials")
	}
	return c.Auth(ctx)
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) Auth(ctx context.Context) error {
	c.lock.Lock()
	valid := c.token != "" && time.Now().Before(c.tokenExpiration)
	c.lock.Unlock()
	if valid {
		return nil
	}

	form := url.Values{}
	form.Add("grant_type", "client_credentials")

	var resp authResponse
	if _, err := c.doAttempt(ctx, "POST", c.authURL, form, &resp); err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.token = resp.AccessToken
	c.tokenExpiration = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	return nil
}

func (c *Client) invalidate() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.token = ""
}

func (c *Client) bearer() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.token
}

func (c *Client) log(format string, args ...interface{}) {
	if c.debug {
		format += "\n"
		log.Printf(format, args...)
	}
}

var backoff = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) ([]byte, error) {
	maxAttempts := 3
	attempts := 0
	var err error
	for {
		if err != nil {
			log.Printf("spotify: retrying: %v\n", err)
		}
		var b []byte
		b, err = c.doAttempt(ctx, method, path, in, out)
		if err == nil {
			return b, nil
		}
		// Increase attempts and check if we should stop
		attempts++
		if attempts >= maxAttempts {
			return nil, err
		}
		// If the error is temporary retry
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			continue
		}

		// Check if we should retry after waiting
		var retry bool
		var wait bool

		// Check status code
		var errStatus errStatusCode
		if errors.As(err, &errStatus) {
			switch int(errStatus) {
			case http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusTooManyRequests, 520:
				// Retry on these status codes
				retry = true
				wait = true
			case http.StatusUnauthorized:
				// Retry on unauthorized
				c.invalidate()
				if err := c.Auth(ctx); err != nil {
					return nil, err
				}
				retry = true
			default:
				return nil, err
			}
		}
		if !retry {
			return nil, err
		}

		// Wait before retrying
		if wait {
			idx := attempts - 1
			if idx >= len(backoff) {
				idx = len(backoff) - 1
			}
			waitTime := backoff[idx]
			c.log("spotify: server seems to be down, waiting %s before retrying", waitTime)
			t := time.NewTimer(waitTime)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-t.C:
			}
		}
	}
}

type errStatusCode int

func (e errStatusCode) Error() string {
	return fmt.Sprintf("%d", e)
}

func (c *Client) doAttempt(ctx context.Context, method, path string, in, out any) ([]byte, error) {
	var body []byte
	var reqBody io.Reader
	var newAuth bool
	if f, ok := in.(url.Values); ok {
		reqBody = strings.NewReader(f.Encode())
		newAuth = true
	} else if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("spotify: couldn't marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(body)
	}
	logBody := string(body)
	if len(logBody) > 100 {
		logBody = logBody[:100] + "..."
	}
	c.log("spotify: do %s %s %s", method, path, logBody)

	// Check if path is absolute
	u := fmt.Sprintf("%s/%s", c.apiURL, path)
	if strings.HasPrefix(path, "http") {
		u = path
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("spotify: couldn't create request: %w", err)
	}
	if newAuth {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(c.clientID, c.clientSecret)
	} else {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.bearer())
	}

	if err := c.ratelimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("spotify: couldn't wait for %s %s: %w", method, u, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify: couldn't %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("spotify: couldn't read response body: %w", err)
	}
	logResp := string(respBody)
	if len(logResp) > 200 {
		logResp = logResp[:200] + "..."
	}
	c.log("spotify: response %s %s %d %s", method, path, resp.StatusCode, logResp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errMessage := string(respBody)
		if len(errMessage) > 100 {
			errMessage = errMessage[:100] + "..."
		}
		return nil, fmt.Errorf("spotify: %s %s returned (%s): %w", method, u, errMessage, errStatusCode(resp.StatusCode))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return nil, fmt.Errorf("spotify: couldn't unmarshal response body (%T): %w", out, err)
		}
	}
	return respBody, nil
}
