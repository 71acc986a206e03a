package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattjoyce/linehook/internal/config"
	"github.com/mattjoyce/linehook/internal/log"
	"github.com/mattjoyce/linehook/internal/webhook"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		os.Exit(runStart(nil))
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "sign":
		os.Exit(runSign(args, os.Stdin))
	case "config":
		os.Exit(runConfigNoun(args))
	case "version":
		fmt.Printf("linehook version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		// Flags without a command mean "start".
		if len(cmd) > 0 && cmd[0] == '-' {
			os.Exit(runStart(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`linehook - LINE webhook receiver with HMAC-SHA256 signature checks

Usage:
  linehook [start] [flags]

Commands:
  start             Serve /health and the webhook paths (default)
  sign              Print the x-line-signature for a body read from stdin or --file
  config check      Validate configuration and print its fingerprint
  config show       Print the effective configuration as YAML
  version           Show version information
  help              Show this help message

Environment:
  PORT                  Port to bind on 0.0.0.0 (default 8080)
  LINE_CHANNEL_SECRET   HMAC key, read on every request
  LOG_LEVEL             Severity filter (default info)
  LOG_FORMAT            json or text (default json)
  LINEHOOK_CONFIG       Optional YAML configuration file
`)
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

// commonFlags registers the flags shared by every command that loads configuration.
func commonFlags(fs *flag.FlagSet) (configPath, envFile *string) {
	configPath = fs.String("config", os.Getenv(config.EnvConfigPath), "Path to YAML configuration file")
	envFile = fs.String("env-file", ".env", "Path to a .env file loaded before configuration")
	return configPath, envFile
}

func loadConfig(configPath, envFile string) (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	// .env may define LINEHOOK_CONFIG itself.
	if configPath == "" {
		configPath = os.Getenv(config.EnvConfigPath)
	}
	return config.Load(configPath)
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	configPath, envFile := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Log.Level, cfg.Log.Format)
	if _, ok := log.ParseLevel(cfg.Log.Level); !ok {
		log.Warn("unrecognized log level, using info", "log_level", cfg.Log.Level)
	}

	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		log.Error("failed to fingerprint config", "error", err)
		return 1
	}
	log.Info("linehook starting", "version", version, "config", fingerprint)
	log.Debug("config resolved",
		"port", cfg.Port,
		"paths", cfg.Paths,
		"signature_header", cfg.SignatureHeader,
		"max_body_size", cfg.MaxBodyBytes,
		"secret_env", cfg.SecretEnv,
	)

	if _, ok := os.LookupEnv(cfg.SecretEnv); !ok {
		// Not fatal: every webhook request answers 500 until it is set.
		log.Warn("channel secret is not set", "env", cfg.SecretEnv)
	}

	server := webhook.New(webhook.Config{
		Listen:          net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port)),
		Paths:           cfg.Paths,
		SignatureHeader: cfg.SignatureHeader,
		MaxBodySize:     cfg.MaxBodyBytes,
	}, webhook.EnvSecret(cfg.SecretEnv), log.WithComponent("webhook"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig)
		cancel()
		if err := <-errCh; err != nil && err != context.Canceled {
			log.Error("shutdown failed", "error", err)
			return 1
		}
	case err := <-errCh:
		log.Error("webhook server failed", "error", err)
		return 1
	}

	log.Info("linehook stopped")
	return 0
}

// runSign prints the signature a sender would put in the signature header.
func runSign(args []string, stdin io.Reader) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	configPath, envFile := commonFlags(fs)
	file := fs.String("file", "", "Read the body from this file instead of stdin")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	secret, ok := webhook.EnvSecret(cfg.SecretEnv).LookupSecret()
	if !ok {
		fmt.Fprintf(os.Stderr, "%s is not set\n", cfg.SecretEnv)
		return 1
	}

	var body []byte
	if *file != "" {
		body, err = os.ReadFile(*file)
	} else {
		body, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read body: %v\n", err)
		return 1
	}

	fmt.Println(webhook.ComputeSignature([]byte(secret), body))
	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: linehook config <check|show> [--config PATH]")
		return 1
	}
	if isHelpToken(args[0]) {
		fmt.Println("Usage: linehook config <check|show> [--config PATH]")
		return 0
	}

	action := args[0]
	fs := flag.NewFlagSet("config "+action, flag.ContinueOnError)
	configPath, envFile := commonFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	switch action {
	case "check", "show":
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config invalid: %v\n", err)
		return 1
	}

	if action == "show" {
		out, err := cfg.Render()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
			return 1
		}
		fmt.Print(string(out))
		return 0
	}

	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fingerprint failed: %v\n", err)
		return 1
	}
	fmt.Printf("Config OK (%s)\n", fingerprint)
	fmt.Printf("  listen: 0.0.0.0:%d\n", cfg.Port)
	fmt.Printf("  paths: %v\n", cfg.Paths)
	if _, ok := log.ParseLevel(cfg.Log.Level); !ok {
		fmt.Printf("  WARN log level %q not recognized, info will be used\n", cfg.Log.Level)
	}
	if _, ok := os.LookupEnv(cfg.SecretEnv); !ok {
		fmt.Printf("  WARN %s is not set; webhook requests will fail with 500\n", cfg.SecretEnv)
	}
	return 0
}
