package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/saniyapatil1704/ecommerce-backend/internal/app"
)

func main() {
	configDir := flag.String("config", "./configs", "directory holding base.yaml and the env overlay")
	envName := flag.String("env", "dev", "environment name (dev|prod)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := app.LoadConfig(*configDir, *envName)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	srv, cleanup, err := app.NewServer(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer cleanup()

	log.Printf("listening on :%s", cfg.App.Port)
	if err := srv.Run(":" + cfg.App.Port); err != nil {
		log.Fatal(err)
	}
}
