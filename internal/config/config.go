package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	RefreshTokenTTL   time.Duration

	MaxFailedLogins  int
	LockoutDuration  time.Duration
	PasswordResetTTL time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SecurityAlertTopicARN string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity. Every storage
// location is named exactly once, here, and resolved at startup — call sites
// never carry table-name literals.
type DynamoTables struct {
	People          string
	Projects        string
	Subscriptions   string
	AccountLockouts string
	PasswordResets  string
	AuditLogs       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			People:          getEnv("DYNAMO_TABLE_PEOPLE", "people"),
			Projects:        getEnv("DYNAMO_TABLE_PROJECTS", "projects"),
			Subscriptions:   getEnv("DYNAMO_TABLE_SUBSCRIPTIONS", "subscriptions"),
			AccountLockouts: getEnv("DYNAMO_TABLE_ACCOUNT_LOCKOUTS", "account_lockouts"),
			PasswordResets:  getEnv("DYNAMO_TABLE_PASSWORD_RESETS", "password_resets"),
			AuditLogs:       getEnv("DYNAMO_TABLE_AUDIT_LOGS", "audit_logs"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "registry-images"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 60)) * time.Minute,
		RefreshTokenTTL:   time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		MaxFailedLogins:  getEnvInt("MAX_FAILED_LOGINS", 5),
		LockoutDuration:  time.Duration(getEnvInt("LOCKOUT_DURATION_MINUTES", 30)) * time.Minute,
		PasswordResetTTL: time.Duration(getEnvInt("PASSWORD_RESET_TTL_MINUTES", 60)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SecurityAlertTopicARN: getEnv("SECURITY_ALERT_TOPIC_ARN", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
