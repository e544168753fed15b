package main

import (
	"os"

	"github.com/EIV-Education/cvtohireteacher/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// A local .env may carry GEMINI_API_KEY during development.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
