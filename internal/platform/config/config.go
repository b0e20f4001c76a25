package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process level configuration.
type Server struct {
	HTTP            HTTPConfig
	PostgresURL     string
	Redis           RedisConfig
	Kafka           KafkaConfig
	JWTSigningKey   string
	SponsorTokenTTL time.Duration
	StampCooldown   time.Duration

	// SponsorSeedFile optionally points at a JSON file of sponsor accounts
	// provisioned at boot.
	SponsorSeedFile string
}

// HTTPConfig captures the listener address and server timeouts.
type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// RedisConfig captures connection settings for the optional Redis fast path.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures the scan-event queue settings. Empty brokers disable
// emission entirely.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A local .env file is honored when present (development convenience).
//
// The JWT signing key is mandatory: it comes from PASSPORT_JWT_SIGNING_KEY or,
// preferably, a managed secret file pointed at by PASSPORT_JWT_SIGNING_KEY_FILE.
// There is deliberately no default.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	addr := os.Getenv("PASSPORT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey, err := signingKeyFromEnv()
	if err != nil {
		return Server{}, err
	}

	var brokers []string
	if raw := os.Getenv("PASSPORT_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	topic := os.Getenv("PASSPORT_KAFKA_TOPIC")
	if topic == "" {
		topic = "passport.scan-events"
	}

	return Server{
		HTTP: HTTPConfig{
			Addr:              addr,
			ReadHeaderTimeout: durationFromEnv("PASSPORT_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       durationFromEnv("PASSPORT_HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      durationFromEnv("PASSPORT_HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       durationFromEnv("PASSPORT_HTTP_IDLE_TIMEOUT", 2*time.Minute),
		},
		PostgresURL: os.Getenv("PASSPORT_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("PASSPORT_REDIS_URL"),
			PoolSize:     intFromEnv("PASSPORT_REDIS_POOL_SIZE", 10),
			MinIdleConns: intFromEnv("PASSPORT_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationFromEnv("PASSPORT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationFromEnv("PASSPORT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationFromEnv("PASSPORT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
		JWTSigningKey:   signingKey,
		SponsorTokenTTL: durationFromEnv("PASSPORT_SPONSOR_TOKEN_TTL", 24*time.Hour),
		StampCooldown:   durationFromEnv("PASSPORT_STAMP_COOLDOWN", 10*time.Minute),
		SponsorSeedFile: os.Getenv("PASSPORT_SPONSOR_SEED_FILE"),
	}, nil
}

func signingKeyFromEnv() (string, error) {
	if path := os.Getenv("PASSPORT_JWT_SIGNING_KEY_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read signing key file: %w", err)
		}
		key := strings.TrimSpace(string(raw))
		if key == "" {
			return "", fmt.Errorf("signing key file %s is empty", path)
		}
		return key, nil
	}
	if key := os.Getenv("PASSPORT_JWT_SIGNING_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("missing JWT signing key: set PASSPORT_JWT_SIGNING_KEY_FILE or PASSPORT_JWT_SIGNING_KEY")
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
