package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":3000", "Listen address for the Feishu webhook")
	flag.Parse()

	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05",
		}),
	)

	server := webhook.NewServer(logger)

	logger.Info("webhook server listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, server.Handler()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
