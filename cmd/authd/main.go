package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	authsvc "github.com/campuscare/authsvc"
	"github.com/campuscare/authsvc/httpapi"
	"github.com/campuscare/authsvc/mailer"
	"github.com/campuscare/authsvc/mongostore"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	listenAddr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "path to authd.yaml (optional)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("authd version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig(*configPath)
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("authd failed: %v", err)
	}
	log.Println("authd stopped")
}

func run(ctx context.Context, cfg daemonConfig) error {
	redisClient, cleanup, err := openRedis(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	engineCfg := authsvc.DefaultConfig()
	if cfg.SecretKey != "" {
		engineCfg.Token.SigningKey = []byte(cfg.SecretKey)
	} else {
		log.Println("authd: SECRET_KEY not set, using an ephemeral signing key; sessions will not survive a restart")
		engineCfg.Token.SigningKey = ephemeralSigningKey()
	}
	if cfg.OTPDigits != 0 {
		engineCfg.OTP.Digits = cfg.OTPDigits
	}
	if cfg.OTPTTL != 0 {
		engineCfg.OTP.TTL = cfg.OTPTTL
	}
	if cfg.SessionLifetime != 0 {
		engineCfg.Session.Lifetime = cfg.SessionLifetime
	}

	builder := authsvc.New().
		WithConfig(engineCfg).
		WithRedis(redisClient).
		WithMailer(buildMailer(cfg))

	if cfg.MongoURI != "" {
		store, closeMongo, err := openMongoStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeMongo()
		builder = builder.WithAccountStore(store)
		log.Println("authd: accounts backed by MongoDB")
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpapi.NewServer(engine).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("authd listening on %s", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openRedis connects to the configured Redis, or starts an embedded
// in-process instance for demo runs when no address is given.
func openRedis(cfg daemonConfig) (*redis.Client, func(), error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return client, func() { _ = client.Close() }, nil
	}

	log.Println("authd: REDIS_ADDR not set, starting embedded Redis (demo mode, data is not durable)")
	mini, err := miniredis.Run()
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	return client, func() {
		_ = client.Close()
		mini.Close()
	}, nil
}

func openMongoStore(ctx context.Context, cfg daemonConfig) (*mongostore.Store, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}
	store := mongostore.NewStore(client.Database(cfg.MongoDatabase).Collection("accounts"))
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return store, func() { _ = client.Disconnect(context.Background()) }, nil
}

func ephemeralSigningKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("authd: signing key generation failed: %v", err)
	}
	return key
}

func buildMailer(cfg daemonConfig) mailer.Sender {
	mailCfg := mailer.Config{
		Host:     cfg.MailServer,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		UseTLS:   cfg.MailUseTLS,
		UseSSL:   cfg.MailUseSSL,
		Sender:   cfg.MailSender,
	}
	if !mailCfg.Configured() {
		log.Println("authd: MAIL_SERVER not set, passcode emails print to the log (demo mode)")
	}
	return mailer.NewFromConfig(mailCfg, log.Default())
}
