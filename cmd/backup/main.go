package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"examtrack/internal/config"
	"examtrack/internal/database"
	"examtrack/internal/repository"
	"examtrack/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	exportPretty := exportCmd.Bool("pretty", false, "Indent the exported JSON for readability")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Replace existing statistics instead of merging (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Open the statistics store backend
	kv, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open statistics store: %v", err)
	}
	defer kv.Close()

	// Create backup service
	repo := repository.NewStoreRepository(kv, cfg.StoreKey, cfg.CorruptionThreshold)
	backupService := service.NewBackupService(repo)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(backupService, *exportOutput, *exportPretty)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, *importInput, *importClear)

	case "repair":
		if err := backupService.Repair(); err != nil {
			log.Fatalf("Repair failed: %v", err)
		}

	case "stats":
		if err := backupService.Stats(os.Stdout); err != nil {
			log.Fatalf("Failed to read statistics: %v", err)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, outputPath string, pretty bool) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	if err := backupService.Export(outputPath, pretty); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	// Get file size
	fileInfo, _ := os.Stat(outputPath)
	log.Printf("Export complete! File size: %.2f KB", float64(fileInfo.Size())/1024)
}

func handleImport(backupService *service.BackupService, inputPath string, clearData bool) {
	// Check if file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if clearData {
		fmt.Print("WARNING: This will replace all existing statistics. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}
	}

	log.Printf("Importing statistics from: %s", inputPath)
	if err := backupService.Import(inputPath, !clearData); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("ExamTrack Statistics Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export statistics to JSON file")
	fmt.Println("  backup import [options]    Import statistics from JSON file")
	fmt.Println("  backup repair              Reconcile stored counters from the raw attempt records")
	fmt.Println("  backup stats               Print a summary of stored statistics")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println("  -pretty           Indent the exported JSON for readability")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Replace existing statistics instead of merging (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Export statistics")
	fmt.Println("  backup export")
	fmt.Println("  backup export -output mybackup.json -pretty")
	fmt.Println()
	fmt.Println("  # Import statistics (merge with existing sessions)")
	fmt.Println("  backup import -input backup.json")
	fmt.Println()
	fmt.Println("  # Import statistics (replace everything)")
	fmt.Println("  backup import -input backup.json -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Store backend: sqlite, postgres, mysql, bolt, or memory (default: sqlite)")
	fmt.Println("  DATABASE_PATH    SQLite or Bolt file path (default: ./data/examtrack.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Println("  STORE_KEY        Key the statistics document is stored under (default: study-statistics)")
}
