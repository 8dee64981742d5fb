package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	WSListenAddr       = "WS_LISTEN_ADDR"
	WSAPIPrefix        = "WS_API_PREFIX"
	CorsOrigin         = "CORS_ORIGIN"
	ChatSystemName     = "CHAT_SYSTEM_NAME"
	ChatSendBuffer     = "CHAT_SEND_BUFFER"
	ChatPingInterval   = "CHAT_PING_INTERVAL"
	ChatMaxConnections = "CHAT_MAX_CONNECTIONS"
	ChatRedisURL       = "CHAT_REDIS_URL"
	ChatRedisPass      = "CHAT_REDIS_PASS"
	ChatNoticeChannel  = "CHAT_NOTICE_CHANNEL"
	ServiceSecret      = "SERVICE_SECRET"
	ServiceKeyHash     = "SERVICE_KEY_HASH"
	HTTPWorkers        = "HTTP_WORKERS"
	HTTPQueueSize      = "HTTP_QUEUE_SIZE"
	ShutdownTimeout    = "SHUTDOWN_TIMEOUT"
)

// Require reports every key in keys that is unset or blank.
func Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("env: required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// GetInt falls back to defaultVal when the variable is unset or not a number.
func GetInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return defaultVal
	}
	return n
}

// GetDuration accepts time.ParseDuration syntax ("30s", "1m").
func GetDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// RequireTogether accepts keys that are all unset or all set, and reports
// the missing ones otherwise.
func RequireTogether(keys ...string) error {
	for _, key := range keys {
		if strings.TrimSpace(os.Getenv(key)) != "" {
			return Require(keys...)
		}
	}
	return nil
}
