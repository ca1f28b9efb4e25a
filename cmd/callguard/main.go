package main

import (
	"log"

	"callguard/cmd/callguard/cmd"
	"callguard/internal/config"
)

func main() {
	if _, err := config.InitializeConfig(); err != nil {
		log.Printf("Warning: %v", err)
	}

	cmd.Execute()
}
