package service

import (
	"github.com/vidinfra/clv/internal/config"
	"github.com/vidinfra/clv/internal/domain/access"
	"github.com/vidinfra/clv/internal/domain/clv"
	"github.com/vidinfra/clv/internal/domain/subscription"
	"github.com/vidinfra/clv/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	SubscriptionRepo subscription.Repository
	AccessRepo       access.Repository
	CLVRepo          clv.Repository
}

func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	subscriptionRepo subscription.Repository,
	accessRepo access.Repository,
	clvRepo clv.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		SubscriptionRepo: subscriptionRepo,
		AccessRepo:       accessRepo,
		CLVRepo:          clvRepo,
	}
}
