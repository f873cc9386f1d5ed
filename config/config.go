package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Observ  ObservabilityConfig
	Payment PaymentConfig
	Ingest  IngestConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	PrometheusPort string
}

type PaymentConfig struct {
	WalletAddress   string
	SettlementDelay time.Duration
	AutoClearDelay  time.Duration
	SuccessRate     float64
}

type IngestConfig struct {
	MaxUploadBytes int64
}

func Load() *Config {
	_ = godotenv.Load()

	settleDelay, _ := strconv.Atoi(getEnv("SETTLEMENT_DELAY_SECONDS", "3"))
	clearDelay, _ := strconv.Atoi(getEnv("AUTO_CLEAR_DELAY_SECONDS", "5"))
	successRate, _ := strconv.ParseFloat(getEnv("SETTLEMENT_SUCCESS_RATE", "0.9"), 64)
	maxUpload, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Payment: PaymentConfig{
			WalletAddress:   getEnv("BTC_WALLET_ADDRESS", "1MuCbBteMFrQpcXBNCftPRAwJ954LqZWjy"),
			SettlementDelay: time.Duration(settleDelay) * time.Second,
			AutoClearDelay:  time.Duration(clearDelay) * time.Second,
			SuccessRate:     successRate,
		},
		Ingest: IngestConfig{
			MaxUploadBytes: maxUpload,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
