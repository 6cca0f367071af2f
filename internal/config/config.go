package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Port          int             `json:"port"`
	BaseURL       string          `json:"base_url"`
	ResetBaseURL  string          `json:"reset_base_url"`
	JWTSecret     string          `json:"jwt_secret"`
	WebhookSecret string          `json:"webhook_secret"`
	LogLevel      string          `json:"log_level"`
	CORSAllowlist []string        `json:"cors_allowlist"`
	Database      DatabaseConfig  `json:"database"`
	Mail          MailConfig      `json:"mail"`
	Payment       PaymentConfig   `json:"payment"`
	FileStore     FileStoreConfig `json:"file_store"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type MailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type PaymentConfig struct {
	SecretKey   string `json:"secret_key"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
	ProductName string `json:"product_name"`
	// UnitAmount is in the currency's smallest unit (cents).
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("webhook_secret is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.ResetBaseURL == "" {
		cfg.ResetBaseURL = cfg.BaseURL + "/reset-password"
	}
	if cfg.Payment.SuccessURL == "" {
		cfg.Payment.SuccessURL = cfg.BaseURL + "/payment-success"
	}
	if cfg.Payment.CancelURL == "" {
		cfg.Payment.CancelURL = cfg.BaseURL + "/payment-cancelled"
	}
	if cfg.Payment.ProductName == "" {
		cfg.Payment.ProductName = "Lifetime Video Access"
	}
	if cfg.Payment.UnitAmount == 0 {
		cfg.Payment.UnitAmount = 1000
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "usd"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	return &cfg, nil
}
