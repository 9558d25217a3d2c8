package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/clv/internal/config"
	"github.com/vidinfra/clv/internal/domain/access"
	"github.com/vidinfra/clv/internal/domain/clv"
	"github.com/vidinfra/clv/internal/domain/subscription"
	"github.com/vidinfra/clv/internal/logger"
	"github.com/vidinfra/clv/internal/types"
	"github.com/vidinfra/clv/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	SubscriptionRepo subscription.Repository
	AccessRepo       access.Repository
	CLVRepo          clv.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
		CLV: config.CLVConfig{
			ChunkSize:  10000,
			PeriodDays: 365,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		SubscriptionRepo: NewInMemorySubscriptionStore(),
		AccessRepo:       NewInMemoryAccessStore(),
		CLVRepo:          NewInMemoryCLVStore(),
	}
}

// ClearStores resets every in-memory repository
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.SubscriptionRepo.(*InMemorySubscriptionStore).Clear()
	s.stores.AccessRepo.(*InMemoryAccessStore).Clear()
	s.stores.CLVRepo.(*InMemoryCLVStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the suite's reference time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
