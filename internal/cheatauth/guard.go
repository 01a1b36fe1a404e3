// Package cheatauth guards the diagnostic controls with a shared token.
//
// Only a bcrypt hash of the token is kept, in the OS keychain when one is
// available and in a 0600 JSON file otherwise.
package cheatauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultService = "wheel-of-fortune"
	accountKey     = "cheats/token-hash"
)

// ErrNoToken is returned when no cheat token has been configured.
var ErrNoToken = errors.New("cheatauth: no token configured")

// Guard verifies cheat tokens against the stored hash.
type Guard struct {
	service      string
	fallbackPath string

	mu   sync.Mutex
	hash []byte
}

// NewGuard creates a guard. An empty service uses the default name; an empty
// fallbackPath disables the file fallback.
func NewGuard(service, fallbackPath string) *Guard {
	if strings.TrimSpace(service) == "" {
		service = defaultService
	}
	return &Guard{service: service, fallbackPath: fallbackPath}
}

// SetToken stores the hash of token, replacing any previous one.
func (g *Guard) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("cheatauth: token is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("cheatauth: hash token: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.setSecret(string(hash)); err != nil {
		return err
	}
	g.hash = hash
	return nil
}

// GenerateToken creates a random token, stores its hash and returns it.
func (g *Guard) GenerateToken() (string, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := g.SetToken(token); err != nil {
		return "", err
	}
	return token, nil
}

// Verify reports whether token matches the stored hash.
func (g *Guard) Verify(token string) bool {
	if token == "" {
		return false
	}
	hash, err := g.loadHash()
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(token)) == nil
}

// Configured reports whether a token hash is stored.
func (g *Guard) Configured() bool {
	_, err := g.loadHash()
	return err == nil
}

// Clear removes the stored hash from the keychain and the fallback file.
func (g *Guard) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hash = nil

	err := keyring.Delete(g.service, accountKey)
	ferr := g.deleteFallback()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) && !isKeyringUnavailable(err) {
		return fmt.Errorf("cheatauth: keyring delete: %w", err)
	}
	return ferr
}

func (g *Guard) loadHash() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hash != nil {
		return g.hash, nil
	}
	val, err := g.getSecret()
	if err != nil {
		return nil, err
	}
	g.hash = []byte(val)
	return g.hash, nil
}

func (g *Guard) setSecret(value string) error {
	if err := keyring.Set(g.service, accountKey, value); err == nil {
		return nil
	} else if !isKeyringUnavailable(err) {
		return fmt.Errorf("cheatauth: keyring set: %w", err)
	}
	return g.setFallback(value)
}

func (g *Guard) getSecret() (string, error) {
	val, err := keyring.Get(g.service, accountKey)
	if err == nil {
		return val, nil
	}
	if !isKeyringUnavailable(err) && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("cheatauth: keyring get: %w", err)
	}
	return g.getFallback()
}

func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}

type fallbackSecrets map[string]map[string]string

func (g *Guard) setFallback(value string) error {
	if strings.TrimSpace(g.fallbackPath) == "" {
		return fmt.Errorf("cheatauth: keyring unavailable and no fallback path configured")
	}
	data, err := g.readFallback()
	if err != nil {
		return err
	}
	if _, ok := data[g.service]; !ok {
		data[g.service] = map[string]string{}
	}
	data[g.service][accountKey] = value
	return g.writeFallback(data)
}

func (g *Guard) getFallback() (string, error) {
	if strings.TrimSpace(g.fallbackPath) == "" {
		return "", ErrNoToken
	}
	data, err := g.readFallback()
	if err != nil {
		return "", err
	}
	val, ok := data[g.service][accountKey]
	if !ok {
		return "", ErrNoToken
	}
	return val, nil
}

func (g *Guard) deleteFallback() error {
	if strings.TrimSpace(g.fallbackPath) == "" {
		return nil
	}
	data, err := g.readFallback()
	if err != nil {
		return err
	}
	delete(data, g.service)
	return g.writeFallback(data)
}

func (g *Guard) readFallback() (fallbackSecrets, error) {
	out := fallbackSecrets{}
	raw, err := os.ReadFile(g.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("cheatauth: read fallback secrets: %w", err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("cheatauth: decode fallback secrets: %w", err)
	}
	return out, nil
}

func (g *Guard) writeFallback(data fallbackSecrets) error {
	if err := os.MkdirAll(filepath.Dir(g.fallbackPath), 0o700); err != nil {
		return fmt.Errorf("cheatauth: mkdir fallback dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cheatauth: encode fallback secrets: %w", err)
	}
	if err := os.WriteFile(g.fallbackPath, raw, 0o600); err != nil {
		return fmt.Errorf("cheatauth: write fallback secrets: %w", err)
	}
	return nil
}
