package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/keyhold/leaseback-service/internal/utils"
)

const AppName = "leaseback-service"

type Config struct {
	AppName string
	AppPort string

	// Database
	DBUrl           string
	DBEncryptionKey []byte

	// Auth
	RSAPublicKey *rsa.PublicKey

	// Internal company accounts allowed to run repeat walkthroughs.
	CompanyUserEmails []string

	CORSAllowedOrigins []string
}

func LoadConfig() *Config {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		utils.Logger.Info("Loaded configuration from .env")
	}

	cfg := &Config{
		AppName: AppName,
		AppPort: getEnvOrDefault("APP_PORT", "8080"),
		DBUrl:   mustGetEnv("DATABASE_URL"),
	}

	key, err := base64.StdEncoding.DecodeString(mustGetEnv("DB_ENCRYPTION_KEY"))
	if err != nil {
		utils.Logger.Fatal("DB_ENCRYPTION_KEY is not valid base64: ", err)
	}
	if len(key) != 32 {
		utils.Logger.Fatalf("DB_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	cfg.DBEncryptionKey = key

	pub, err := parseRSAPublicKey(mustGetEnv("JWT_PUBLIC_KEY"))
	if err != nil {
		utils.Logger.Fatal("Failed to parse JWT_PUBLIC_KEY: ", err)
	}
	cfg.RSAPublicKey = pub

	if raw := os.Getenv("COMPANY_USER_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(e); trimmed != "" {
				cfg.CompanyUserEmails = append(cfg.CompanyUserEmails, trimmed)
			}
		}
	}

	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.CORSAllowedOrigins = strings.Split(raw, ",")
	} else {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg
}

func mustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("Required environment variable %s is missing", key)
	}
	return v
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseRSAPublicKey accepts a PEM block, either raw or base64-wrapped so the
// key can live in a single-line environment variable.
func parseRSAPublicKey(raw string) (*rsa.PublicKey, error) {
	pemBytes := []byte(raw)
	if !strings.Contains(raw, "-----BEGIN") {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, err
		}
		pemBytes = decoded
	}

	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("key is not RSA")
	}
	return pub, nil
}
