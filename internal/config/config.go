package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Clinic / scheduling
	DoctorName     string
	ClinicName     string
	ClinicTimezone string

	// Availability source
	AvailabilityProvider string // "sheets" or "csv"
	AvailabilityCSVPath  string
	SheetsSpreadsheetID  string
	SheetsRange          string
	GoogleCredentialsJSON string
	GoogleAPIKey          string

	// Calendar
	GoogleCalendarID string

	// Intent / extraction LLM
	LLMProvider    string // "gemini" or "bedrock"
	GeminiAPIKey   string
	GeminiModel    string
	BedrockModelID string

	// Queue / worker
	UseMemoryQueue      bool
	WorkerCount         int
	InboundQueueURL     string
	MessageJobsTable    string
	ReceiveWaitSeconds  int
	ReceiveBatchSize    int

	// Persistence
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	DedupProvider string // "postgres", "redis" or "memory"
	DedupTTL      time.Duration

	// Referral attachments
	ReferralBucket string

	// Outbound mail
	MailProvider      string // "ses", "sendgrid" or "stub"
	ReplyFromEmail    string
	ReplyFromName     string
	SendGridAPIKey    string
	SESConfigurationSet string

	// Admin API
	AdminJWTSecret string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DoctorName:     getEnv("DOCTOR_NAME", ""),
		ClinicName:     getEnv("CLINIC_NAME", "the clinic"),
		ClinicTimezone: getEnv("CLINIC_TIMEZONE", "America/New_York"),

		AvailabilityProvider:  strings.ToLower(strings.TrimSpace(getEnv("AVAILABILITY_PROVIDER", "sheets"))),
		AvailabilityCSVPath:   getEnv("AVAILABILITY_CSV_PATH", ""),
		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsRange:           getEnv("SHEETS_RANGE", "Availability!A2:D"),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleAPIKey:          getEnv("GOOGLE_API_KEY", ""),

		GoogleCalendarID: getEnv("GOOGLE_CALENDAR_ID", "primary"),

		LLMProvider:    strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "gemini"))),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),

		UseMemoryQueue:     getEnvAsBool("USE_MEMORY_QUEUE", false),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", 1),
		InboundQueueURL:    getEnv("INBOUND_QUEUE_URL", ""),
		MessageJobsTable:   getEnv("MESSAGE_JOBS_TABLE", "message_jobs"),
		ReceiveWaitSeconds: getEnvAsInt("RECEIVE_WAIT_SECONDS", 2),
		ReceiveBatchSize:   getEnvAsInt("RECEIVE_BATCH_SIZE", 5),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		DedupProvider: strings.ToLower(strings.TrimSpace(getEnv("DEDUP_PROVIDER", "postgres"))),
		DedupTTL:      getEnvAsDuration("DEDUP_TTL", 72*time.Hour),

		ReferralBucket: getEnv("REFERRAL_BUCKET", ""),

		MailProvider:        strings.ToLower(strings.TrimSpace(getEnv("MAIL_PROVIDER", "ses"))),
		ReplyFromEmail:      getEnv("REPLY_FROM_EMAIL", ""),
		ReplyFromName:       getEnv("REPLY_FROM_NAME", "Clinic Scheduling"),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		SESConfigurationSet: getEnv("SES_CONFIGURATION_SET", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
