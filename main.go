package main

import (
	"log"

	"gst-billing-backend/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cmd.Execute()
}
