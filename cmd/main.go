package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firestore-rules-tester/internal/di"
	"firestore-rules-tester/internal/rulestest"
	"firestore-rules-tester/internal/rulestest/config"
	"firestore-rules-tester/internal/rulestest/usecase"
	"firestore-rules-tester/internal/shared/errors"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Firestore Rules Tester - Starting...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.CredentialFile == "" || cfg.RulesFile == "" || cfg.ScenarioFile == "" {
		log.Fatal("RULES_CREDENTIAL_FILE, RULES_FILE and RULES_SCENARIO_FILE must be set")
	}

	credential, err := rulestest.LoadCredentialFile(cfg.CredentialFile)
	if err != nil {
		log.Fatalf("Failed to load credential: %v", err)
	}

	container := di.NewContainer()
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("Failed to close container: %v", err)
		}
	}()

	if err := container.InitializeRulesTester(cfg, credential); err != nil {
		log.Fatalf("Failed to initialize rules tester: %v", err)
	}
	appLogger := container.Logger
	module := container.GetRulesModule()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := module.Database.Authorize(ctx); err != nil {
		log.Fatalf("Failed to authorize against the rules service: %v", err)
	}
	appLogger.Info("Authorized against the rules evaluation service")

	if err := module.Database.SetRulesFromFile(cfg.RulesFile); err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}

	if cfg.FixtureFile != "" {
		fixture, err := rulestest.LoadFixtureFile(cfg.FixtureFile)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		module.Database.SetData(fixture)
	}

	scenarios, err := rulestest.LoadScenarioFile(cfg.ScenarioFile)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}

	failed := 0
	for _, sc := range scenarios {
		summary, err := module.RunScenario(ctx, sc)
		if err != nil {
			if errors.IsRulesCompilation(err) {
				log.Fatalf("Rules did not compile: %v", err)
			}
			appLogger.Errorf("Scenario %q errored: %v", sc.Name, err)
			failed++
			continue
		}

		if err := usecase.AssertSummary(*summary); err != nil {
			appLogger.Warnf("Scenario %q failed: %v", sc.Name, err)
			failed++
			continue
		}
		appLogger.Infof("Scenario %q passed", sc.Name)
	}

	if failed > 0 {
		appLogger.Errorf("%d of %d scenarios failed", failed, len(scenarios))
		os.Exit(1)
	}
	appLogger.Infof("All %d scenarios passed", len(scenarios))
}
