package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
	AccessTTL    time.Duration
	// Bootstrap admin created on start when both are set and the username is free.
	AdminUsername string
	AdminPassword string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type EvidenceConfig struct {
	Storage     string
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Prefix    string
	MaxBytes    int
	JPEGQuality int
}

type WorkflowConfig struct {
	ChallanDueDays     int
	HearingDefaultDays int
}

type PublicConfig struct {
	OTPTTL         time.Duration
	TokenTTL       time.Duration
	OTPMaxAttempts int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	NATS        NATSConfig
	Evidence    EvidenceConfig
	Workflow    WorkflowConfig
	Public      PublicConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()
	setDefaults(v)

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
			AccessTTL:     v.GetDuration("JWT_ACCESS_TTL"),
			AdminUsername: v.GetString("ADMIN_USERNAME"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("NATS_URL"),
			SubjectPrefix: v.GetString("NATS_SUBJECT_PREFIX"),
		},
		Evidence: EvidenceConfig{
			Storage:     v.GetString("EVIDENCE_STORAGE"),
			Dir:         v.GetString("EVIDENCE_DIR"),
			S3Bucket:    v.GetString("EVIDENCE_S3_BUCKET"),
			S3Region:    v.GetString("EVIDENCE_S3_REGION"),
			S3Endpoint:  v.GetString("EVIDENCE_S3_ENDPOINT"),
			S3Prefix:    v.GetString("EVIDENCE_S3_PREFIX"),
			MaxBytes:    v.GetInt("EVIDENCE_MAX_BYTES"),
			JPEGQuality: v.GetInt("EVIDENCE_JPEG_QUALITY"),
		},
		Workflow: WorkflowConfig{
			ChallanDueDays:     v.GetInt("CHALLAN_DUE_DAYS"),
			HearingDefaultDays: v.GetInt("HEARING_DEFAULT_DAYS"),
		},
		Public: PublicConfig{
			OTPTTL:         v.GetDuration("OTP_TTL"),
			TokenTTL:       v.GetDuration("PUBLIC_TOKEN_TTL"),
			OTPMaxAttempts: v.GetInt("OTP_MAX_ATTEMPTS"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("JWT_ACCESS_TTL", "12h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("NATS_SUBJECT_PREFIX", "noisesentinel")
	v.SetDefault("EVIDENCE_STORAGE", "fs")
	v.SetDefault("EVIDENCE_DIR", "./data/evidence")
	v.SetDefault("EVIDENCE_S3_REGION", "us-east-1")
	v.SetDefault("EVIDENCE_S3_PREFIX", "evidence/")
	v.SetDefault("EVIDENCE_MAX_BYTES", 5<<20)
	v.SetDefault("EVIDENCE_JPEG_QUALITY", 70)
	v.SetDefault("OTP_TTL", "15m")
	v.SetDefault("PUBLIC_TOKEN_TTL", "24h")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("CHALLAN_DUE_DAYS", 30)
	v.SetDefault("HEARING_DEFAULT_DAYS", 30)
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	switch cfg.Evidence.Storage {
	case "fs":
	case "s3":
		if cfg.Evidence.S3Bucket == "" {
			return fmt.Errorf("EVIDENCE_S3_BUCKET is required when EVIDENCE_STORAGE=s3")
		}
	default:
		return fmt.Errorf("EVIDENCE_STORAGE must be fs or s3, got %q", cfg.Evidence.Storage)
	}
	if cfg.Evidence.JPEGQuality < 1 || cfg.Evidence.JPEGQuality > 100 {
		return fmt.Errorf("EVIDENCE_JPEG_QUALITY must be between 1 and 100")
	}
	if cfg.Public.OTPMaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be positive")
	}
	return nil
}
