package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pion/logging"
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

var defaultStunURLs = []string{
	"stun:stun.l.google.com:19302",
	"stun:stun1.l.google.com:19302",
}

func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

type Config struct {
	Addr string

	DBDriver   string
	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string
	DBPath     string

	// ValidateMeetings makes the websocket endpoint reject meeting ids that
	// were never created through the REST API.
	ValidateMeetings bool

	WSMaxMessageBytes int64
	WSWriteWait       time.Duration

	LogLevel  logging.LogLevel
	IceConfig *webrtc.Configuration
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	stunServers := getEnvs("STUN_URLS")
	if len(stunServers) == 0 {
		stunServers = defaultStunURLs
	}
	log.Println("STUN_URLS:", stunServers)

	return &Config{
		Addr:              getEnv("ADDR", ":8080"),
		DBDriver:          getEnv("DB_DRIVER", "sqlite3"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "meetings_db"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBPath:            getEnv("DB_PATH", "meetings.db"),
		ValidateMeetings:  getEnvBool("VALIDATE_MEETINGS", false),
		WSMaxMessageBytes: int64(getEnvInt("WS_MAX_MESSAGE_BYTES", 64*1024)),
		WSWriteWait:       getEnvDuration("WS_WRITE_WAIT", 10*time.Second),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		IceConfig: &webrtc.Configuration{
			ICEServers: iceServers(stunServers),
		},
	}
}

// iceServers drops URLs pion cannot parse so browsers never receive them.
func iceServers(urls []string) []webrtc.ICEServer {
	var servers []webrtc.ICEServer
	for _, u := range urls {
		if _, err := stun.ParseURI(u); err != nil {
			log.Printf("Ignoring ICE server %q: %v", u, err)
			continue
		}
		servers = append(servers, webrtc.ICEServer{URLs: []string{u}})
	}
	return servers
}

// NewLoggerFactory builds the pion logger factory used by the signaling core.
// PION_LOG_* variables still override per scope.
func (c *Config) NewLoggerFactory() *logging.DefaultLoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	f.DefaultLogLevel = c.LogLevel
	return f
}

func parseLogLevel(s string) logging.LogLevel {
	switch strings.ToLower(s) {
	case "disabled", "off":
		return logging.LogLevelDisabled
	case "error":
		return logging.LogLevelError
	case "warn", "warning":
		return logging.LogLevelWarn
	case "debug":
		return logging.LogLevelDebug
	case "trace":
		return logging.LogLevelTrace
	default:
		return logging.LogLevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvs(key string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.Fields(value)
	}
	return []string{}
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("Invalid %s=%q, using %v", key, value, fallback)
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			log.Printf("Invalid %s=%q, using %d", key, value, fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			log.Printf("Invalid %s=%q, using %s", key, value, fallback)
			return fallback
		}
		return d
	}
	return fallback
}
