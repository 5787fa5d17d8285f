package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/joho/godotenv"
	"github.com/tbxark/planagent/gateway"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	flag.Parse()
	_ = godotenv.Load()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.APIKey = key
	}
	if err := startServer(context.Background(), config); err != nil {
		log.Fatalf("start server: %v", err)
	}
}

func startServer(ctx context.Context, config *Config) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	// A missing key is not fatal at startup: the server runs and
	// answers every generation request with a 500, matching the
	// per-request configuration-error contract.
	var svc gateway.Service
	if config.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not configured, generation requests will fail")
	} else {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  config.APIKey,
			Model:   config.Model,
			BaseURL: config.BaseURL,
		})
		if err != nil {
			return err
		}
		gen, err := gateway.NewModelGenerator(cm)
		if err != nil {
			return err
		}
		svc = gen
	}

	server := gateway.NewServer(svc, gateway.ServerConfig{
		Addr:  config.Addr,
		Debug: config.Debug,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
