package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/pkg/client"
)

type configuration struct {
	ServerURL  string
	AuthSecret string
	AuthIssuer string
	Timeout    time.Duration
}

var (
	cfg       configuration
	apiClient *client.Client
)

func (c configuration) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server url is empty")
	}
	if _, err := url.Parse(c.ServerURL); err != nil {
		return fmt.Errorf("failed to parse server url: %v", err)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func main() {
	flag.StringVar(&cfg.ServerURL, "server-url", "http://localhost:8080", "URL of a running taskpool")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", "", "HS256 secret when the server requires auth")
	flag.StringVar(&cfg.AuthIssuer, "auth-issuer", "taskpool", "Token issuer")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "Timeout for waited tasks")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	opts := []client.Option{}
	if cfg.AuthSecret != "" {
		token, err := client.NewToken([]byte(cfg.AuthSecret), cfg.AuthIssuer, "e2e", time.Hour)
		if err != nil {
			log.Fatalf("failed to sign token: %v", err)
		}
		opts = append(opts, client.WithToken(token))
	}
	apiClient, err = client.NewClient(cfg.ServerURL, opts...)
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
