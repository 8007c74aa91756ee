package betfair

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultIdentityBase = "https://identitysso.betfair.com"
	defaultBettingBase  = "https://api.betfair.com/exchange/betting/rest/v1.0"

	// Betfair documenta ~20 req/s por app key para la Betting API;
	// nos quedamos muy por debajo: la herramienta es interactiva.
	bettingRatePerSec = 5
	loginRatePerSec   = 1

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Credentials son las credenciales de sesión del exchange.
type Credentials struct {
	AppKey   string
	Username string
	Password string
}

// Client es el cliente HTTP del exchange con login de sesión, rate
// limiting y retries. Implementa ports.Exchange.
type Client struct {
	http           *http.Client
	identityBase   string
	bettingBase    string
	creds          Credentials
	bettingLimiter *rate.Limiter
	loginLimiter   *rate.Limiter

	mu      sync.Mutex
	session string
}

// NewClient crea un Client con los base URLs dados. Si identityBase o
// bettingBase están vacíos, usa los URLs de producción.
func NewClient(identityBase, bettingBase string, creds Credentials) *Client {
	if identityBase == "" {
		identityBase = defaultIdentityBase
	}
	if bettingBase == "" {
		bettingBase = defaultBettingBase
	}
	return &Client{
		http:           &http.Client{Timeout: 15 * time.Second},
		identityBase:   identityBase,
		bettingBase:    bettingBase,
		creds:          creds,
		bettingLimiter: rate.NewLimiter(bettingRatePerSec, 5),
		loginLimiter:   rate.NewLimiter(loginRatePerSec, 1),
	}
}

// Login autentica contra el endpoint de identidad y guarda el session
// token. Las llamadas de datos lo invocan solas si no hay sesión.
func (c *Client) Login(ctx context.Context) error {
	if c.creds.AppKey == "" || c.creds.Username == "" || c.creds.Password == "" {
		return fmt.Errorf("betfair.Login: missing credentials (app key/username/password)")
	}

	if err := c.loginLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("betfair.Login: rate limiter: %w", err)
	}

	form := url.Values{}
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.identityBase+"/api/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("betfair.Login: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Application", c.creds.AppKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("betfair.Login: %w", err)
	}
	defer resp.Body.Close()

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("betfair.Login: decode response: %w", err)
	}
	if lr.Status != "SUCCESS" || lr.Token == "" {
		return fmt.Errorf("betfair.Login: login rejected: %s", lr.Status)
	}

	c.mu.Lock()
	c.session = lr.Token
	c.mu.Unlock()
	slog.Info("exchange login successful")
	return nil
}

// ensureSession hace login si todavía no hay session token.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	have := c.session != ""
	c.mu.Unlock()
	if have {
		return nil
	}
	return c.Login(ctx)
}

// post hace un POST JSON autenticado contra la Betting API, con rate
// limiting y retries.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.bettingLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.bettingBase+path, bytes.NewReader(b))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Application", c.creds.AppKey)
		c.mu.Lock()
		req.Header.Set("X-Authentication", c.session)
		c.mu.Unlock()

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by exchange", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			payload, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(payload))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
