package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ogurasousui/shop-hr/internal/platform/config"
	"github.com/ogurasousui/shop-hr/internal/platform/logging"
	"github.com/ogurasousui/shop-hr/internal/platform/migration"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.Log)

	runner, err := migration.New(cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to prepare migration: %v", err)
	}

	runErr := runner.Run(action)
	if err := runner.Close(); err != nil {
		logger.Warn("migration close failed", "err", err)
	}
	if runErr != nil {
		log.Fatalf("migration %s failed: %v", action, runErr)
	}

	logger.Info("migration completed", "action", action, "driver", cfg.Database.Driver)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	if _, err := os.Stat("assets/local.yaml"); err != nil {
		return ""
	}
	return "assets/local.yaml"
}
