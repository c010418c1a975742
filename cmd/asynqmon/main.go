package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/joho/godotenv"

	"github.com/talentfit/talentfit/internal/logger"
)

func main() {
	_ = godotenv.Load(".env")

	logger.Init(envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", "console"))
	log := logger.GetLogger()

	redisAddr := envOr("REDIS_ADDRESS", "localhost:6379")

	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/asynqmon",
		RedisConnOpt: asynq.RedisClientOpt{Addr: redisAddr},
	})
	defer h.Close()

	mux := http.NewServeMux()
	mux.Handle(h.RootPath()+"/", h)

	addr := fmt.Sprintf(":%s", envOr("ASYNQMON_PORT", "8090"))
	log.Info().Str("address", addr).Str("redis", redisAddr).Msg("Starting Asynqmon")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("Asynqmon stopped")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
