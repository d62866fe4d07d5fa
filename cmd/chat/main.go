package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/EnZ0cez/StockAgent/internal/agent"
	"github.com/EnZ0cez/StockAgent/internal/config"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	conversation := agent.NewConversationFromConfig(cfg)

	fmt.Println("Stock analysis assistant. Type 'reset' to start over, 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit":
			return
		case "reset":
			conversation.Reset()
			fmt.Println("Conversation reset. You can start a new analysis.")
			continue
		}

		resp := conversation.ProcessMessage(context.Background(), line)
		fmt.Println(resp.Message)
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("error reading input: %v", err)
	}
}
