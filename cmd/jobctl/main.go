package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fadilmartias/job-board/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	defer logger.Sync()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
