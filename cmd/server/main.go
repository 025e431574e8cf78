package main

import (
	"context"
	"log"
	"os"

	"github.com/saolsen/gameplay-computer/internal/server"
	"github.com/saolsen/gameplay-computer/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
