package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
	"github.com/jaycollett/OpenIRBlaster/pkg/blaster/schema"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
	"github.com/jaycollett/OpenIRBlaster/pkg/learning"
	irmcp "github.com/jaycollett/OpenIRBlaster/pkg/mcp"
	"github.com/jaycollett/OpenIRBlaster/pkg/serialblaster"
	"github.com/jaycollett/OpenIRBlaster/pkg/store"
)

func main() {
	// Logging must go to stderr; stdout is the MCP transport.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/openirblaster/openirblaster.db)")
	serialPort := flag.String("port", "/dev/ttyUSB0", "Path to the transceiver serial port")
	deviceID := flag.String("device-id", "openirblaster", "Transceiver device identifier")
	deviceName := flag.String("device-name", "OpenIRBlaster", "Transceiver display name")
	switchName := flag.String("switch", blaster.DefaultLearningSwitch, "Name of the firmware learning-mode switch")
	learnTimeout := flag.Int("learn-timeout", blaster.DefaultLearningTimeoutSeconds, "Default learning session timeout in seconds")
	flag.Parse()

	ctx := context.Background()

	// Open database
	database, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx, *deviceID, *deviceName); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Try to connect to the transceiver; fall back to NullBlaster so code
	// listings keep working without hardware attached
	var irBlaster blaster.Blaster
	var eventSubscriber blaster.EventSubscriber

	controller, err := serialblaster.NewController(*serialPort, *deviceID, *switchName)
	if err != nil {
		log.Warn().Err(err).Str("port", *serialPort).Msg("Transceiver unavailable, using null blaster")
		irBlaster = blaster.NewNullBlaster(*deviceID)
		eventSubscriber = blaster.NewNullEventSubscriber()
	} else {
		irBlaster = controller
		eventSubscriber = controller
	}
	defer irBlaster.Close()

	session := learning.NewSession(irBlaster, eventSubscriber,
		learning.WithTimeout(time.Duration(*learnTimeout)*time.Second))
	defer session.Cleanup()

	blasterHub := hub.New(database, irBlaster, session)
	defer blasterHub.Close()

	validator := schema.NewValidator()

	// Create and start MCP server
	mcpServer := irmcp.NewServer(blasterHub, validator)

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
