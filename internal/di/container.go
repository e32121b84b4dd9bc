package di

import (
	"fmt"
	"sync"

	"firestore-rules-tester/internal/rulestest"
	"firestore-rules-tester/internal/rulestest/config"
	"firestore-rules-tester/internal/rulestest/domain/repository"
	"firestore-rules-tester/internal/shared/logger"
)

// Container represents a dependency injection container with proper lifecycle management
type Container struct {
	mu sync.RWMutex

	// Module instances
	RulesModule *rulestest.Module

	// Configuration
	Config *config.Config

	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer() *Container {
	return &Container{}
}

// InitializeRulesTester wires the rules-testing module for the given credential
func (c *Container) InitializeRulesTester(cfg *config.Config, credential repository.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if c.Logger == nil {
		c.Logger = logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFormat)
	}
	c.Config = cfg

	module, err := rulestest.NewModule(cfg, credential, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create rules-testing module: %w", err)
	}

	c.RulesModule = module
	return nil
}

// GetRulesModule returns the rules-testing module
func (c *Container) GetRulesModule() *rulestest.Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RulesModule
}

// Close releases container resources
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.RulesModule != nil {
		if err := c.RulesModule.Close(); err != nil {
			return fmt.Errorf("failed to close rules-testing module: %w", err)
		}
		c.RulesModule = nil
	}
	return nil
}
