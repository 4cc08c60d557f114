package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"pdfcompare/cmd"
	"pdfcompare/internal/config"
	"pdfcompare/internal/logger"
)

func main() {
	// A missing .env is normal; settings may come from the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		cfg = config.Default()
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting pdfcompare")

	cmd.Execute(cfg)

	log.Debug().Msg("pdfcompare finished")
	os.Exit(0)
}
