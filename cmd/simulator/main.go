package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "Interview server base URL")
	email     = flag.String("email", "candidate@example.com", "Identity to interview as")
	secret    = flag.String("secret", "dev-secret", "Shared JWT secret for signing the token")
	company   = flag.String("company", "Acme", "Company the mock interview is for")
	role      = flag.String("role", "Backend Engineer", "Role being interviewed for")
	questions = flag.String("questions", "Tell me about yourself;Why this company?", "Semicolon-separated question list")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	config := &SimulatorConfig{
		ServerURL: *serverURL,
		Email:     *email,
		Secret:    *secret,
		Company:   *company,
		Role:      *role,
		Questions: splitQuestions(*questions),
	}

	simulator := NewSimulator(config, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down simulator...")
		simulator.Stop()
		os.Exit(0)
	}()

	if err := simulator.Connect(); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}

	fmt.Printf("Interview simulator connected\n")
	fmt.Printf("  Identity: %s\n", *email)
	fmt.Printf("  Server: %s\n", *serverURL)
	fmt.Printf("Type a reply and press enter. /end finishes the interview.\n\n")

	simulator.Run()
}

func splitQuestions(raw string) []string {
	var out []string
	for _, q := range strings.Split(raw, ";") {
		q = strings.TrimSpace(q)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}
