package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/workhive/workhive/config"
	"github.com/workhive/workhive/pkg/crypt"
	"github.com/workhive/workhive/pkg/razorpay"
)

// ErrGatewayNotConfigured is returned when neither the admin config file
// nor the environment provide credentials.
var ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

// storedGatewayConfig is the on-disk shape. The secret is AES-GCM
// encrypted; the file never holds it in the clear.
type storedGatewayConfig struct {
	KeyID           string `json:"key_id"`
	EncryptedSecret string `json:"encrypted_secret"`
	BaseURL         string `json:"base_url"`
}

// GatewayConfigService persists and serves the payment-gateway account
// settings managed through the admin API.
type GatewayConfigService struct {
	path string

	mu     sync.RWMutex
	cached *razorpay.Credentials
}

func NewGatewayConfigService() *GatewayConfigService {
	return &GatewayConfigService{path: config.GatewayConfigPath()}
}

// Save validates and writes credentials, encrypting the secret at rest.
func (s *GatewayConfigService) Save(creds razorpay.Credentials) (map[string]string, error) {
	if errs := creds.Validate(); len(errs) > 0 {
		return errs, nil
	}

	enc, err := crypt.Encrypt(creds.KeySecret)
	if err != nil {
		return nil, fmt.Errorf("gateway config: encrypt secret: %w", err)
	}

	stored := storedGatewayConfig{
		KeyID:           creds.KeyID,
		EncryptedSecret: enc,
		BaseURL:         creds.BaseURL,
	}
	raw, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("gateway config: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return nil, fmt.Errorf("gateway config: write %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.cached = &creds
	s.mu.Unlock()
	return nil, nil
}

// Load returns the active credentials: the admin-saved file when
// present, otherwise the environment settings.
func (s *GatewayConfigService) Load() (razorpay.Credentials, error) {
	s.mu.RLock()
	if s.cached != nil {
		creds := *s.cached
		s.mu.RUnlock()
		return creds, nil
	}
	s.mu.RUnlock()

	creds, err := s.loadFile()
	if err == nil {
		s.mu.Lock()
		s.cached = &creds
		s.mu.Unlock()
		return creds, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return razorpay.Credentials{}, err
	}

	creds = razorpay.Credentials{
		KeyID:     config.GatewayKeyID(),
		KeySecret: config.GatewayKeySecret(),
		BaseURL:   config.GatewayBaseURL(),
	}
	if creds.KeyID == "" || creds.KeySecret == "" {
		return razorpay.Credentials{}, ErrGatewayNotConfigured
	}
	return creds, nil
}

func (s *GatewayConfigService) loadFile() (razorpay.Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return razorpay.Credentials{}, err
	}

	var stored storedGatewayConfig
	if err := json.Unmarshal(raw, &stored); err != nil {
		return razorpay.Credentials{}, fmt.Errorf("gateway config: parse %s: %w", s.path, err)
	}

	secret, err := crypt.Decrypt(stored.EncryptedSecret)
	if err != nil {
		return razorpay.Credentials{}, fmt.Errorf("gateway config: decrypt secret: %w", err)
	}

	return razorpay.Credentials{
		KeyID:     stored.KeyID,
		KeySecret: secret,
		BaseURL:   stored.BaseURL,
	}, nil
}

// Masked returns display-safe settings for the admin screen.
func (s *GatewayConfigService) Masked() (map[string]string, error) {
	creds, err := s.Load()
	if err != nil {
		return nil, err
	}
	mode := "test"
	if creds.IsLive() {
		mode = "live"
	}
	return map[string]string{
		"key_id":   creds.MaskedKeyID(),
		"base_url": creds.BaseURL,
		"mode":     mode,
	}, nil
}

// Client builds a gateway client from the active credentials.
func (s *GatewayConfigService) Client() (*razorpay.Client, error) {
	creds, err := s.Load()
	if err != nil {
		return nil, err
	}
	return razorpay.New(creds), nil
}

// Test probes the gateway with the stored credentials.
func (s *GatewayConfigService) Test() error {
	client, err := s.Client()
	if err != nil {
		return err
	}
	return client.Probe()
}
