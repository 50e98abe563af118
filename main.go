package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	api "github.com/appcollab/appcollab-backend/api"
	"github.com/appcollab/appcollab-backend/config"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/logging"
	"github.com/appcollab/appcollab-backend/models"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c, err := config.MergeSSM(context.Background(), config.New())
	if err != nil {
		fmt.Printf("Error loading parameters from SSM: %v\n", err)
		os.Exit(1)
	}
	logging.Init(c)

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Warn().Err(err).Msg("Could not enable uuid-ossp extension")
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		log.Info().Msg("Running migrations...")
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if _, err := models.GenerateColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Column report failed")
		}
		return
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(database.New(db), c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(config.GetSeconds(c, "SHUTDOWN_TIMEOUT_SECONDS", 30))
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
