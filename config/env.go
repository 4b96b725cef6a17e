package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoDatabase  = "ecomstore"
	defaultRedisAddr      = "localhost:6379"
	defaultJWTSecret      = "change-me-in-production"
	defaultTokenTTL       = "168h" // 7 days
	defaultAppPort        = "8080"
	defaultAppEnv         = "local"
	defaultGatewayEnv     = "sandbox"
	defaultGatewayTimeout = "15s"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once and merges them over the
// built-in defaults. Later calls are no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":           defaultMongoURI,
		"MONGO_DB":            defaultMongoDatabase,
		"REDIS_ADDR":          defaultRedisAddr,
		"REDIS_PASSWORD":      "",
		"JWT_SECRET":          defaultJWTSecret,
		"TOKEN_TTL":           defaultTokenTTL,
		"APP_PORT":            defaultAppPort,
		"APP_ENV":             defaultAppEnv,
		"BRAINTREE_ENV":       defaultGatewayEnv,
		"BRAINTREE_TIMEOUT":   defaultGatewayTimeout,
		"AUTHZ_STRICT":        "false",
		"ORDER_STATUS_STRICT": "false",
	}
}

func MongoURI() string      { _ = Load(); return get("MONGO_URI", defaultMongoURI) }
func MongoDatabase() string { _ = Load(); return get("MONGO_DB", defaultMongoDatabase) }

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func JWTSecret() string { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }

// TokenTTL is the identity-token lifetime. Defaults to 7 days.
func TokenTTL() time.Duration {
	_ = Load()
	return duration(get("TOKEN_TTL", defaultTokenTTL), defaultTokenTTL)
}

func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }
func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }

// ── Braintree ────────────────────────────────────────────────────────────────

func BraintreeEnv() string        { _ = Load(); return get("BRAINTREE_ENV", defaultGatewayEnv) }
func BraintreeMerchantID() string { _ = Load(); return get("BRAINTREE_MERCHANT_ID", "") }
func BraintreePublicKey() string  { _ = Load(); return get("BRAINTREE_PUBLIC_KEY", "") }
func BraintreePrivateKey() string { _ = Load(); return get("BRAINTREE_PRIVATE_KEY", "") }

// BraintreeTimeout bounds every call to the payment processor.
func BraintreeTimeout() time.Duration {
	_ = Load()
	return duration(get("BRAINTREE_TIMEOUT", defaultGatewayTimeout), defaultGatewayTimeout)
}

// ── Policies ─────────────────────────────────────────────────────────────────

// AuthzStrict controls how an admin-role denial is reported.
// false (legacy storefront behaviour): 200 with success=false.
// true: a proper 403 Forbidden.
func AuthzStrict() bool { _ = Load(); return isTrue(get("AUTHZ_STRICT", "false")) }

// OrderStatusStrict enables the forward-only order status transition table.
func OrderStatusStrict() bool { _ = Load(); return isTrue(get("ORDER_STATUS_STRICT", "false")) }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", "storage") }
func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:8080/storage")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── File loading ─────────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// get resolves a key. Process environment wins over .env and
// config/app.json, which win over the built-in defaults.
func get(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func duration(v, fallback string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and config/app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
