package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
	"github.com/sicko7947/petstore"
	"github.com/sicko7947/petstore/handler"
	"github.com/sicko7947/petstore/store"
)

func main() {
	cfg, err := petstore.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := petstore.NewLogger(cfg)

	// Built once per container and reused across invocations
	petStore, err := store.Open(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize pet store")
	}

	h := handler.NewHandler(petStore, handler.WithLogger(logger))

	logger.Info().
		Str("table", cfg.TableName).
		Str("store", string(cfg.Store)).
		Msg("Pets handler initialized")

	lambda.Start(h.Handle)
}
