package repository

import (
	"github.com/vidinfra/clv/internal/domain/access"
	"github.com/vidinfra/clv/internal/domain/clv"
	"github.com/vidinfra/clv/internal/domain/subscription"
	"github.com/vidinfra/clv/internal/logger"
	"github.com/vidinfra/clv/internal/postgres"
	pgrepo "github.com/vidinfra/clv/internal/repository/postgres"
)

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return pgrepo.NewSubscriptionRepository(db, logger)
}

func NewAccessRepository(db *postgres.DB, logger *logger.Logger) access.Repository {
	return pgrepo.NewAccessRepository(db, logger)
}

func NewCLVRepository(db *postgres.DB, logger *logger.Logger) clv.Repository {
	return pgrepo.NewCLVRepository(db, logger)
}
