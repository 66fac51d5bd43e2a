package testutil

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rentshop/billing/internal/cache"
	"github.com/rentshop/billing/internal/config"
	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/domain/subscription"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/metrics"
	"github.com/rentshop/billing/internal/sentry"
	"github.com/rentshop/billing/internal/types"
	"github.com/rentshop/billing/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PlanRepo         plan.Repository
	SubscriptionRepo subscription.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	stores   Stores
	db       *MockPostgresClient
	cache    cache.Cache
	logger   *logger.Logger
	config   *config.Configuration
	sentry   *sentry.Service
	registry *prometheus.Registry
	metrics  metrics.BillingMetrics
	now      time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	_, err := validator.NewValidator()
	s.Require().NoError(err)

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.logger = logger.NewNoop()
	s.sentry = sentry.NewSentryService(s.config, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PlanRepo:         NewInMemoryPlanStore(),
		SubscriptionRepo: NewInMemorySubscriptionStore(),
	}
	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache(s.config)
	s.registry = prometheus.NewRegistry()
	s.metrics = metrics.NewBillingMetrics(s.registry)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
	s.stores.SubscriptionRepo.(*InMemorySubscriptionStore).Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
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

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetSentry returns a sentry service with reporting disabled
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetMetrics returns billing metrics registered on a per test registry
func (s *BaseServiceTestSuite) GetMetrics() metrics.BillingMetrics {
	return s.metrics
}

// GetRegistry returns the registry GetMetrics is registered on
func (s *BaseServiceTestSuite) GetRegistry() *prometheus.Registry {
	return s.registry
}

// GetNow returns the fixed instant tests treat as now
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetClock returns a clock frozen at GetNow
func (s *BaseServiceTestSuite) GetClock() types.Clock {
	return types.FixedClock{At: s.now}
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
