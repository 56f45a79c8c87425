package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("DVG_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("DVG_JWT_ISSUER")
	if issuer == "" {
		issuer = "dramaverse"
	}

	duration := 7 * 24 * time.Hour
	if ttl := os.Getenv("DVG_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

type ServerConfig struct {
	HTTPAddr     string
	TCPAddr      string
	UDPAddr      string
	FetchTimeout time.Duration
	FeedInterval time.Duration // 0 disables the feed scheduler
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		HTTPAddr:     ":8080",
		TCPAddr:      ":7070",
		UDPAddr:      ":7071",
		FetchTimeout: 30 * time.Second,
	}

	if addr := os.Getenv("DVG_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := os.Getenv("DVG_TCP_ADDR"); addr != "" {
		cfg.TCPAddr = addr
	}
	if addr := os.Getenv("DVG_UDP_ADDR"); addr != "" {
		cfg.UDPAddr = addr
	}
	if secs := os.Getenv("DVG_FETCH_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			cfg.FetchTimeout = time.Duration(n) * time.Second
		}
	}
	if mins := os.Getenv("DVG_FEED_INTERVAL_MINS"); mins != "" {
		if n, err := strconv.Atoi(mins); err == nil && n > 0 {
			cfg.FeedInterval = time.Duration(n) * time.Minute
		}
	}

	return cfg
}

type AdminSeedConfig struct {
	Username string
	Password string
}

func LoadAdminSeedConfig() AdminSeedConfig {
	cfg := AdminSeedConfig{Username: "admin", Password: "admin123"}
	if u := os.Getenv("DVG_ADMIN_USER"); u != "" {
		cfg.Username = u
	}
	if p := os.Getenv("DVG_ADMIN_PASSWORD"); p != "" {
		cfg.Password = p
	}
	return cfg
}
