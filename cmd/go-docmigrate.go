package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adfharrison1/go-docmigrate/pkg/server"
	"github.com/adfharrison1/go-docmigrate/pkg/storage"
)

func main() {
	// Command line flags
	var (
		port            = flag.String("port", "8080", "Server port")
		dataFile        = flag.String("data-file", "go-docmigrate_data"+storage.FileExtension, "Data file path for persistence")
		dataDir         = flag.String("data-dir", ".", "Data directory for storage")
		transactionSave = flag.Bool("transaction-save", true, "Save the data file after every write")
		showHelp        = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ngo-docmigrate is an in-memory document database with lazy schema migration.\n")
		fmt.Fprintf(os.Stderr, "Documents carry their own schema version and are upgraded when read, not in bulk.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                    # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090                        # Custom port\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -data-dir /tmp/go-docmigrate      # Custom data directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nNote:\n")
		fmt.Fprintf(os.Stderr, "  Migration schemas are registered in code: embed pkg/server in your own\n")
		fmt.Fprintf(os.Stderr, "  main and call RegisterSchema before Routes. This binary serves collections\n")
		fmt.Fprintf(os.Stderr, "  without schemas as a plain document store.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Build storage options based on flags
	storageOptions := []storage.StorageOption{
		storage.WithDataFile(*dataFile),
	}
	if *dataDir != "." {
		storageOptions = append(storageOptions, storage.WithDataDir(*dataDir))
		log.Printf("INFO: Using data directory: %s", *dataDir)
	}
	if !*transactionSave {
		storageOptions = append(storageOptions, storage.WithTransactionSave(false))
		log.Printf("WARN: Transaction saves disabled - data only saved on graceful shutdown")
	}

	srv := server.NewServer(storageOptions...)
	dataPath := srv.Storage().DataFilePath()

	// Initialize database from file
	log.Printf("INFO: Loading data from: %s", dataPath)
	srv.InitDB(dataPath)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    ":" + *port,
		Handler: srv.Routes(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting go-docmigrate server on :%s", *port)
		log.Printf("API endpoints available at http://localhost:%s", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Save database before shutdown
	log.Printf("INFO: Saving data to: %s", dataPath)
	srv.SaveDB(dataPath)

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
