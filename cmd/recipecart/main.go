package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/recipecart/backend/cmd/recipecart/commands"
)

func main() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commands.ExecuteContext(ctx)
}
