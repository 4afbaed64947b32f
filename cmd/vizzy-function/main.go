// Command vizzy-function serves the API from a serverless function runtime
// behind an API gateway.
package main

import (
	"log"

	"github.com/basel-ax/vizzy/internal/app"
	"github.com/basel-ax/vizzy/internal/config"
	"github.com/basel-ax/vizzy/internal/logging"
	"github.com/basel-ax/vizzy/internal/server"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	srv := app.New(cfg, logger, server.WithPrefixes("/.netlify/functions", "/api"))

	lambda.Start(httpadapter.New(srv.Handler()).ProxyWithContext)
}
