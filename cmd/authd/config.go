package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the yaml shape of the daemon config file. Every field is
// optional; absent fields keep their defaults and environment variables
// override both.
type fileConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	SecretKey  string `yaml:"secretKey"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`

	Mail struct {
		Server   string `yaml:"server"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		UseTLS   *bool  `yaml:"useTls"`
		UseSSL   *bool  `yaml:"useSsl"`
		Sender   string `yaml:"sender"`
	} `yaml:"mail"`

	OTP struct {
		Digits int    `yaml:"digits"`
		TTL    string `yaml:"ttl"`
	} `yaml:"otp"`

	Session struct {
		Lifetime string `yaml:"lifetime"`
	} `yaml:"session"`
}

// daemonConfig is the resolved runtime configuration.
type daemonConfig struct {
	ListenAddr string
	SecretKey  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string

	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailUseTLS   bool
	MailUseSSL   bool
	MailSender   string

	OTPDigits       int
	OTPTTL          time.Duration
	SessionLifetime time.Duration
}

func defaultDaemonConfig() daemonConfig {
	return daemonConfig{
		ListenAddr:    ":8080",
		MailPort:      587,
		MailUseTLS:    true,
		MongoDatabase: "authsvc",
	}
}

// loadConfig reads the optional yaml file, merges it over the defaults,
// and applies environment overrides last.
func loadConfig(path string) daemonConfig {
	cfg := defaultDaemonConfig()

	candidates := make([]string, 0, 2)
	if path != "" {
		candidates = append(candidates, path)
	} else {
		candidates = append(candidates, "configs/authd.yaml", "authd.yaml")
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		var parsed fileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		mergeFileConfig(&cfg, parsed)
		break
	}

	applyEnvOverrides(&cfg)
	return cfg
}

func mergeFileConfig(dst *daemonConfig, src fileConfig) {
	if src.ListenAddr != "" {
		dst.ListenAddr = src.ListenAddr
	}
	if src.SecretKey != "" {
		dst.SecretKey = src.SecretKey
	}
	if src.Redis.Addr != "" {
		dst.RedisAddr = src.Redis.Addr
	}
	if src.Redis.Password != "" {
		dst.RedisPassword = src.Redis.Password
	}
	if src.Redis.DB != 0 {
		dst.RedisDB = src.Redis.DB
	}
	if src.Mongo.URI != "" {
		dst.MongoURI = src.Mongo.URI
	}
	if src.Mongo.Database != "" {
		dst.MongoDatabase = src.Mongo.Database
	}
	if src.Mail.Server != "" {
		dst.MailServer = src.Mail.Server
	}
	if src.Mail.Port != 0 {
		dst.MailPort = src.Mail.Port
	}
	if src.Mail.Username != "" {
		dst.MailUsername = src.Mail.Username
	}
	if src.Mail.Password != "" {
		dst.MailPassword = src.Mail.Password
	}
	if src.Mail.UseTLS != nil {
		dst.MailUseTLS = *src.Mail.UseTLS
	}
	if src.Mail.UseSSL != nil {
		dst.MailUseSSL = *src.Mail.UseSSL
	}
	if src.Mail.Sender != "" {
		dst.MailSender = src.Mail.Sender
	}
	if src.OTP.Digits != 0 {
		dst.OTPDigits = src.OTP.Digits
	}
	if src.OTP.TTL != "" {
		if d, err := time.ParseDuration(src.OTP.TTL); err == nil {
			dst.OTPTTL = d
		}
	}
	if src.Session.Lifetime != "" {
		if d, err := time.ParseDuration(src.Session.Lifetime); err == nil {
			dst.SessionLifetime = d
		}
	}
}

func applyEnvOverrides(cfg *daemonConfig) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(dst *bool, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.SecretKey, "SECRET_KEY")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setInt(&cfg.RedisDB, "REDIS_DB")
	setString(&cfg.MongoURI, "MONGO_URI")
	setString(&cfg.MongoDatabase, "MONGO_DATABASE")
	setString(&cfg.MailServer, "MAIL_SERVER")
	setInt(&cfg.MailPort, "MAIL_PORT")
	setString(&cfg.MailUsername, "MAIL_USERNAME")
	setString(&cfg.MailPassword, "MAIL_PASSWORD")
	setBool(&cfg.MailUseTLS, "MAIL_USE_TLS")
	setBool(&cfg.MailUseSSL, "MAIL_USE_SSL")
	setString(&cfg.MailSender, "SENDER_EMAIL")
}
