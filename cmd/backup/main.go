package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/logging"
	"familyhub/internal/repository"
	"familyhub/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	if len(os.Args) < 2 || os.Args[1] != "export" {
		printUsage()
		os.Exit(1)
	}
	exportCmd.Parse(os.Args[2:])

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	backupService := service.NewBackupService(
		repository.NewFamilyRepository(db),
		repository.NewUserRepository(db),
		repository.NewInviteRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewQuestionConfigRepository(db),
		repository.NewAnswerRepository(db),
		cfg.DatabaseType,
		logger,
	)

	handleExport(context.Background(), backupService, *exportOutput, logger)
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string, logger *zap.Logger) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("failed to create output directory", zap.Error(err))
		}
	}

	logger.Info("exporting database", zap.String("path", outputPath))
	if err := backupService.Export(ctx, outputPath); err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}

	if info, err := os.Stat(outputPath); err == nil {
		logger.Info("export complete", zap.Float64("size_mb", float64(info.Size())/1024/1024))
	}
}

func printUsage() {
	fmt.Println("FamilyHub Database Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export database to JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Password hashes are never exported.")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./familyhub.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
