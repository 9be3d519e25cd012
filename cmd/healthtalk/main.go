package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/app"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/config"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/logging"
)

func main() {
	daemon := flag.Bool("daemon", false, "run on the configured schedule instead of once")
	draftURL := flag.String("draft", "", "generate an article draft for the given source url and exit")
	category := flag.String("category", "Legemidler", "draft category (used with -draft)")
	length := flag.String("length", "Middels", "draft length preset (used with -draft)")
	textFile := flag.String("text", "", "file with raw source text for the draft; fetched from the url when empty")
	flag.Parse()

	// .env is optional; environment always wins
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *draftURL != "" {
		var rawText string
		if *textFile != "" {
			data, readErr := os.ReadFile(*textFile)
			if readErr != nil {
				logger.Error("cannot read draft source text", "path", *textFile, "error", readErr)
				os.Exit(1)
			}
			rawText = string(data)
		}

		draft, draftErr := application.GenerateDraft(ctx, rawText, *draftURL, *category, *length)
		if draftErr != nil {
			logger.Error("draft generation failed", "url", *draftURL, "error", draftErr)
			os.Exit(1)
		}
		fmt.Println(draft)
		return
	}

	if *daemon {
		err = application.RunDaemon(ctx)
	} else {
		err = application.RunOnce(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
