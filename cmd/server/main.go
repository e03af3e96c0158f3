// Package main provides the performance worksheet HTTP server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.ngs.io/perf-worksheet/internal/adapter/store"
	"go.ngs.io/perf-worksheet/internal/adapter/store/climbgrid"
	"go.ngs.io/perf-worksheet/internal/adapter/store/csv"
	"go.ngs.io/perf-worksheet/internal/adapter/store/profile"
	httpHandler "go.ngs.io/perf-worksheet/internal/http"
	"go.ngs.io/perf-worksheet/internal/log"
	"go.ngs.io/perf-worksheet/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("perf-worksheet version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	aircraftPath := getEnv("AIRCRAFT_DATA", "./data/aircraft.json")
	climbDir := getEnv("CLIMB_GRID_DIR", "")
	baseURL := getEnv("PUBLIC_BASE_URL", "http://localhost:8080/")
	logLevel := getEnv("LOG_LEVEL", "info")
	logDir := getEnv("LOG_DIR", "./logs")
	strictTables, err := strconv.ParseBool(getEnv("STRICT_TABLES", "false"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid STRICT_TABLES: %v\n", err)
		os.Exit(1)
	}

	lg := log.New(logLevel, logDir)
	lg.Info("Starting performance worksheet server",
		slog.String("version", version),
		slog.String("port", port),
		slog.String("aircraft_data", aircraftPath),
		slog.String("log_file", lg.LogFile),
		slog.Bool("strict_tables", strictTables))

	// Initialize stores. Climb charts in CLIMB_GRID_DIR, NetCDF first and
	// then CSV, replace the charts in the aircraft data file.
	var climbs store.ClimbLoader
	if climbDir != "" {
		lg.Info("Climb chart overlay enabled", slog.String("dir", climbDir))
		climbs = store.ClimbLoaders{climbgrid.NewStore(climbDir), csv.NewClimbStore(climbDir)}
	}
	profiles := profile.NewStore(aircraftPath, climbs)

	// Load profiles up front so bad data fails at startup.
	ids, err := profiles.ListAircraft()
	if err != nil {
		lg.Error("Failed to load aircraft data", slog.Any("error", err))
		os.Exit(1)
	}
	lg.Info("Aircraft profiles loaded", slog.Any("aircraft", ids))

	// Cast to interface.
	var aircraftLoader store.AircraftLoader = profiles

	// Initialize use case.
	worksheetUC := usecase.NewWorksheetUseCase(aircraftLoader, lg, strictTables)

	// Setup router.
	router := httpHandler.SetupRouter(worksheetUC, baseURL)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	lg.Infof("Server listening on %s", addr)
	lg.Infof("Health check: http://localhost:%s/health", port)

	if err := router.Run(addr); err != nil {
		lg.Error("Failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Performance Worksheet Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  perf-worksheet [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  AIRCRAFT_DATA           Aircraft profile JSON file (default: ./data/aircraft.json)")
	fmt.Println("  CLIMB_GRID_DIR          Directory of <id>_climb.nc or <id>_climb.csv charts (optional)")
	fmt.Println("  PUBLIC_BASE_URL         Page that shared worksheet links open (default: http://localhost:8080/)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  LOG_DIR                 Directory for the rotated log file (default: ./logs)")
	fmt.Println("  STRICT_TABLES           Reject lookups outside aircraft charts instead of extrapolating (default: false)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  perf-worksheet")
	fmt.Println()
	fmt.Println("  # Start server on custom port with NetCDF climb grids")
	fmt.Println("  PORT=3000 CLIMB_GRID_DIR=./data/climb perf-worksheet")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health                        Health check")
	fmt.Println("  GET  /v1/aircraft                   List aircraft profiles")
	fmt.Println("  GET  /v1/aircraft/:id               Get an aircraft profile")
	fmt.Println("  GET  /v1/worksheet?data=            Decode a shared worksheet")
	fmt.Println("  POST /v1/worksheet/share            Encode a worksheet as a shareable link")
	fmt.Println("  GET  /v1/worksheet/calculations     Derived altitudes, climb rates and V speeds")
	fmt.Println("  GET  /v1/altitudes                  Pressure and density altitude")
	fmt.Println("  POST /v1/interpolate                Interpolate an arbitrary table")
	fmt.Println()
}
