package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"gopkg.in/yaml.v3"

	"toolwire/internal/domain"
)

// Config is the top-level application configuration.
type Config struct {
	Engine         EngineConfig         `yaml:"engine"`
	Provider       ProviderConfig       `yaml:"provider"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	ContextGuard   ContextGuardConfig   `yaml:"context_guard"`
	Audit          AuditConfig          `yaml:"audit"`
	Logger         LoggerConfig         `yaml:"logger"`
	Tracer         TracerConfig         `yaml:"tracer"`
}

// EngineConfig holds the tool-calling loop settings.
type EngineConfig struct {
	MaxToolCalls        int     `yaml:"max_tool_calls"`
	AutoExecute         bool    `yaml:"auto_execute"`
	Temperature         float64 `yaml:"temperature"`
	MaxTokens           int     `yaml:"max_tokens"`
	SystemPrompt        string  `yaml:"system_prompt"`
	ReplaceSystemPrompt bool    `yaml:"replace_system_prompt"`
	KeepToolsAvailable  bool    `yaml:"keep_tools_available"`
	Dialect             string  `yaml:"dialect"` // "default", "lfm2", "auto"
}

// PoolConfig holds HTTP connection pool settings for the provider.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// ProviderConfig holds settings for the generation provider.
type ProviderConfig struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"` // "completion" or "bedrock"
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Region      string        `yaml:"region,omitempty"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
	RespTimeout time.Duration `yaml:"resp_timeout"`
	Pool        PoolConfig    `yaml:"pool"`
}

// CircuitBreakerConfig holds circuit breaker settings for the provider.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// RateLimitConfig holds request rate limiting for the provider.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// ContextGuardConfig holds context window guard settings.
type ContextGuardConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MaxTokens     int     `yaml:"max_tokens"`
	ReserveTokens int     `yaml:"reserve_tokens"`
	SafetyMargin  float64 `yaml:"safety_margin"`
	Encoding      string  `yaml:"encoding"` // tiktoken encoding name
}

// AuditConfig holds audit log settings.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // sqlite database file
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

// defaultDataDir returns the persistent data directory under $HOME/.toolwire.
// Falls back to "./data" if $HOME cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".toolwire", "data")
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxToolCalls: 5,
			AutoExecute:  true,
			Temperature:  0.7,
			MaxTokens:    1024,
			Dialect:      "default",
		},
		Provider: ProviderConfig{
			Name:        "local",
			Type:        "completion",
			BaseURL:     "http://localhost:11434",
			Model:       "llama3.2",
			ConnTimeout: 5 * time.Second,
			RespTimeout: 300 * time.Second,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:     true,
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			Interval:    60 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     2,
			Burst:   4,
		},
		ContextGuard: ContextGuardConfig{
			Enabled:       false,
			MaxTokens:     32000,
			ReserveTokens: 1024,
			SafetyMargin:  0.15,
			Encoding:      "cl100k_base",
		},
		Audit: AuditConfig{
			Enabled: false,
			Path:    filepath.Join(defaultDataDir(), "audit.db"),
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads the config file at path, applying defaults, env overrides,
// and secret decryption. A missing file is not an error: defaults plus
// env overrides are returned. Every failure wraps ErrConfigLoad so
// callers can classify it without string matching.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, loadErr(err)
			}
			return cfg, nil
		}
		return nil, loadErr(fmt.Errorf("read config: %v", err))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, loadErr(fmt.Errorf("resolve config path: %v", err))
	}

	if err := validatePermissions(absPath); err != nil {
		return nil, loadErr(err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, loadErr(fmt.Errorf("parse config: %v", err))
	}

	ApplyEnvOverrides(cfg)

	passphrase := os.Getenv("TOOLWIRE_CONFIG_KEY")
	if passphrase != "" {
		if err := decryptSecrets(cfg, passphrase); err != nil {
			return nil, loadErr(fmt.Errorf("decrypt secrets: %v", err))
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, loadErr(err)
	}

	return cfg, nil
}

func loadErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrConfigLoad, err)
}

// ApplyEnvOverrides maps TOOLWIRE_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TOOLWIRE_PROVIDER_TYPE"); v != "" {
		cfg.Provider.Type = v
	}
	if v := os.Getenv("TOOLWIRE_PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("TOOLWIRE_PROVIDER_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("TOOLWIRE_PROVIDER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("TOOLWIRE_ENGINE_DIALECT"); v != "" {
		cfg.Engine.Dialect = v
	}
	if v := os.Getenv("TOOLWIRE_ENGINE_MAX_TOOL_CALLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxToolCalls = n
		}
	}
	if v := os.Getenv("TOOLWIRE_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("TOOLWIRE_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("TOOLWIRE_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("TOOLWIRE_AUDIT_PATH"); v != "" {
		cfg.Audit.Path = v
		cfg.Audit.Enabled = true
	}
}

// decryptSecrets resolves enc: prefixed values in place.
func decryptSecrets(cfg *Config, passphrase string) error {
	if strings.HasPrefix(cfg.Provider.APIKey, "enc:") {
		decrypted, err := DecryptValue(strings.TrimPrefix(cfg.Provider.APIKey, "enc:"), passphrase)
		if err != nil {
			return fmt.Errorf("provider api_key: %w", err)
		}
		cfg.Provider.APIKey = decrypted
	}
	return nil
}

// EncryptValue encrypts a plaintext value with AES-256-GCM using a passphrase.
func EncryptValue(plaintext, passphrase string) (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	// Format: hex(salt) + ":" + hex(nonce+ciphertext)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(ciphertext), nil
}

// DecryptValue decrypts an AES-256-GCM encrypted value.
func DecryptValue(encrypted, passphrase string) (string, error) {
	parts := strings.SplitN(encrypted, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid encrypted format")
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}

	data, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	key := deriveKey(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}

	return string(plaintext), nil
}

// deriveKey uses Argon2id to derive a 32-byte key from passphrase + salt.
func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
}

// validatePermissions checks the config file has restrictive permissions.
func validatePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	mode := info.Mode().Perm()
	// Allow 0600 and 0644 (readable by others but not writable)
	if mode&0o077 > 0o044 {
		return fmt.Errorf("config file %s has insecure permissions %o (want 0600 or 0644)", path, mode)
	}
	return nil
}
