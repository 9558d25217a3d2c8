package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/clv/internal/domain/clv"
	"github.com/vidinfra/clv/internal/domain/subscription"
	ierr "github.com/vidinfra/clv/internal/errors"
	"github.com/vidinfra/clv/internal/testutil"
	"github.com/vidinfra/clv/internal/types"
)

type ComputeServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ComputeService
	period  types.AnalysisPeriod
}

func TestComputeService(t *testing.T) {
	suite.Run(t, new(ComputeServiceSuite))
}

func (s *ComputeServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewComputeService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		AccessRepo:       s.GetStores().AccessRepo,
		CLVRepo:          s.GetStores().CLVRepo,
	})
	s.period = types.NewAnalysisPeriod(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 365)
}

// addFact stores one qualifying subscription fact starting startOffsetDays
// after the period start, running for lengthDays.
func (s *ComputeServiceSuite) addFact(userID int64, startOffsetDays, lengthDays int, amount int64) {
	start := s.period.Start.AddDate(0, 0, startOffsetDays)
	s.subscriptionStore().AddFact(&subscription.Fact{
		UserID:             userID,
		StartTime:          start,
		EndTime:            start.AddDate(0, 0, lengthDays),
		Length:             int64(lengthDays),
		SubscriptionTypeID: 84,
		Type:               "web",
		IsRecurrent:        true,
		Amount:             decimal.NewFromInt(amount),
		PaymentGatewayID:   2,
		LastSignInDays:     10,
		CreatedAtInDays:    400,
	})
}

func (s *ComputeServiceSuite) subscriptionStore() *testutil.InMemorySubscriptionStore {
	return s.GetStores().SubscriptionRepo.(*testutil.InMemorySubscriptionStore)
}

func (s *ComputeServiceSuite) accessStore() *testutil.InMemoryAccessStore {
	return s.GetStores().AccessRepo.(*testutil.InMemoryAccessStore)
}

func (s *ComputeServiceSuite) getRow(userID int64) *clv.CustomerLifetimeValue {
	row, err := s.GetStores().CLVRepo.GetByUserID(s.GetContext(), userID)
	s.NoError(err)
	return row
}

func (s *ComputeServiceSuite) TestEmptyDataset() {
	summary, err := s.service.RunForPeriod(s.GetContext(), s.period)

	s.NoError(err)
	s.Equal(0, summary.EligibleUsers)
	s.Equal(0, summary.ComputedUsers)
	s.Equal(0, summary.GroupCount)
	s.Equal(0, s.GetStores().CLVRepo.(*testutil.InMemoryCLVStore).Count())
}

func (s *ComputeServiceSuite) TestSingleUserSingleSubscription() {
	s.addFact(1, 30, 30, 120)
	s.accessStore().SetLastAccessDays(1, 5)

	summary, err := s.service.RunForPeriod(s.GetContext(), s.period)

	s.NoError(err)
	s.Equal(1, summary.EligibleUsers)
	s.Equal(1, summary.ComputedUsers)
	s.Equal(
		len(types.DecisionAttributes())+len(types.BinnedAttributes()),
		summary.GroupCount,
	)

	// A population of one means every group the user belongs to contains
	// only the user's own spend: all five percentile points equal it.
	row := s.getRow(1)
	s.True(row.PeriodAmount.Equal(decimal.NewFromInt(120)))
	for _, p := range []decimal.Decimal{
		row.Percentile0Amount,
		row.Percentile25Amount,
		row.Percentile50Amount,
		row.Percentile75Amount,
		row.Percentile100Amount,
	} {
		s.True(p.Equal(decimal.NewFromInt(120)), "expected 120, got %s", p)
	}
	s.Equal(s.period.Start, row.PeriodStart)
	s.Equal(s.period.End, row.PeriodEnd)
}

func (s *ComputeServiceSuite) TestTwoUsersMixedGroups() {
	// Identical subscriptions except for the amount. The two users share
	// every decision value but amount, and every bin but the two monetary
	// ones, so 11 of each user's 14 groups hold both spends [100, 300] and
	// 3 hold only the user's own.
	s.addFact(1, 0, 30, 100)
	s.addFact(2, 0, 30, 300)
	s.accessStore().SetLastAccessDays(1, 5)
	s.accessStore().SetLastAccessDays(2, 5)

	summary, err := s.service.RunForPeriod(s.GetContext(), s.period)

	s.NoError(err)
	s.Equal(2, summary.ComputedUsers)
	s.Equal(11+3+3, summary.GroupCount)

	// Shared groups contribute the quartiles of [100, 300]: 100, 150, 200,
	// 250, 300. Singleton groups contribute the user's own spend five times.
	low := s.getRow(1)
	s.InDelta(100, low.Percentile0Amount.InexactFloat64(), 1e-9)
	s.InDelta((11*150+3*100)/14.0, low.Percentile25Amount.InexactFloat64(), 1e-9)
	s.InDelta((11*200+3*100)/14.0, low.Percentile50Amount.InexactFloat64(), 1e-9)
	s.InDelta((11*250+3*100)/14.0, low.Percentile75Amount.InexactFloat64(), 1e-9)
	s.InDelta((11*300+3*100)/14.0, low.Percentile100Amount.InexactFloat64(), 1e-9)

	high := s.getRow(2)
	s.InDelta((11*100+3*300)/14.0, high.Percentile0Amount.InexactFloat64(), 1e-9)
	s.InDelta((11*150+3*300)/14.0, high.Percentile25Amount.InexactFloat64(), 1e-9)
	s.InDelta((11*200+3*300)/14.0, high.Percentile50Amount.InexactFloat64(), 1e-9)
	s.InDelta((11*250+3*300)/14.0, high.Percentile75Amount.InexactFloat64(), 1e-9)
	s.InDelta(300, high.Percentile100Amount.InexactFloat64(), 1e-9)

	for _, row := range []*clv.CustomerLifetimeValue{low, high} {
		s.True(row.Percentile0Amount.LessThanOrEqual(row.Percentile25Amount))
		s.True(row.Percentile25Amount.LessThanOrEqual(row.Percentile50Amount))
		s.True(row.Percentile50Amount.LessThanOrEqual(row.Percentile75Amount))
		s.True(row.Percentile75Amount.LessThanOrEqual(row.Percentile100Amount))
	}
}

func (s *ComputeServiceSuite) TestMultipleSubscriptionsAccumulate() {
	// Two back-to-back subscriptions, both fully inside the period.
	s.addFact(1, 0, 30, 60)
	s.addFact(1, 30, 30, 90)

	summary, err := s.service.RunForPeriod(s.GetContext(), s.period)

	s.NoError(err)
	s.Equal(1, summary.ComputedUsers)
	s.True(s.getRow(1).PeriodAmount.Equal(decimal.NewFromInt(150)))
}

func (s *ComputeServiceSuite) TestIdempotentRerun() {
	s.addFact(1, 10, 30, 100)
	s.addFact(2, 40, 60, 250)
	s.accessStore().SetLastAccessDays(1, 3)

	_, err := s.service.RunForPeriod(s.GetContext(), s.period)
	s.NoError(err)
	first := s.getRow(1)

	_, err = s.service.RunForPeriod(s.GetContext(), s.period)
	s.NoError(err)
	second := s.getRow(1)

	s.True(first.Percentile0Amount.Equal(second.Percentile0Amount))
	s.True(first.Percentile25Amount.Equal(second.Percentile25Amount))
	s.True(first.Percentile50Amount.Equal(second.Percentile50Amount))
	s.True(first.Percentile75Amount.Equal(second.Percentile75Amount))
	s.True(first.Percentile100Amount.Equal(second.Percentile100Amount))
	s.True(first.PeriodAmount.Equal(second.PeriodAmount))
	s.Equal(first.CreatedAt, second.CreatedAt)
	s.False(second.UpdatedAt.Before(first.UpdatedAt))
}

func (s *ComputeServiceSuite) TestRerunOverwritesWithNewData() {
	s.addFact(1, 10, 30, 100)

	_, err := s.service.RunForPeriod(s.GetContext(), s.period)
	s.NoError(err)
	first := s.getRow(1)

	s.addFact(1, 60, 30, 50)
	_, err = s.service.RunForPeriod(s.GetContext(), s.period)
	s.NoError(err)
	second := s.getRow(1)

	s.True(second.PeriodAmount.Equal(decimal.NewFromInt(150)))
	s.Equal(first.CreatedAt, second.CreatedAt)
}

func (s *ComputeServiceSuite) TestChunkSizeDoesNotChangeResults() {
	for userID := int64(1); userID <= 5; userID++ {
		s.addFact(userID, int(userID)*10, 30, userID*100)
		s.accessStore().SetLastAccessDays(userID, userID)
	}

	_, err := s.service.RunForPeriod(s.GetContext(), s.period)
	s.NoError(err)

	// Same dataset through single-user chunks into a separate sink.
	smallChunks := *s.GetConfig()
	smallChunks.CLV.ChunkSize = 1
	sink := testutil.NewInMemoryCLVStore()
	chunked := NewComputeService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           &smallChunks,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		AccessRepo:       s.GetStores().AccessRepo,
		CLVRepo:          sink,
	})
	_, err = chunked.RunForPeriod(s.GetContext(), s.period)
	s.NoError(err)

	for userID := int64(1); userID <= 5; userID++ {
		want := s.getRow(userID)
		got, err := sink.GetByUserID(s.GetContext(), userID)
		s.NoError(err)
		s.True(want.Percentile0Amount.Equal(got.Percentile0Amount), "user %d", userID)
		s.True(want.Percentile25Amount.Equal(got.Percentile25Amount), "user %d", userID)
		s.True(want.Percentile50Amount.Equal(got.Percentile50Amount), "user %d", userID)
		s.True(want.Percentile75Amount.Equal(got.Percentile75Amount), "user %d", userID)
		s.True(want.Percentile100Amount.Equal(got.Percentile100Amount), "user %d", userID)
		s.True(want.PeriodAmount.Equal(got.PeriodAmount), "user %d", userID)
	}
}

func (s *ComputeServiceSuite) TestSelectorMismatchIsSkipped() {
	s.addFact(1, 10, 30, 100)
	// Selected by the id query but gone by the time facts are fetched.
	s.subscriptionStore().AddEligibleUserID(99)

	summary, err := s.service.RunForPeriod(s.GetContext(), s.period)

	s.NoError(err)
	s.Equal(2, summary.EligibleUsers)
	s.Equal(1, summary.ComputedUsers)

	_, err = s.GetStores().CLVRepo.GetByUserID(s.GetContext(), 99)
	s.True(ierr.IsNotFound(err))
}

func (s *ComputeServiceSuite) TestDefaultPeriodRun() {
	now := time.Now().UTC()
	start := now.Add(-30 * 24 * time.Hour)
	s.subscriptionStore().AddFact(&subscription.Fact{
		UserID:    1,
		StartTime: start,
		EndTime:   start.Add(10 * 24 * time.Hour),
		Length:    10,
		Type:      "web",
		Amount:    decimal.NewFromInt(40),
	})

	summary, err := s.service.Run(s.GetContext())

	s.NoError(err)
	s.Equal(1, summary.ComputedUsers)
	s.WithinDuration(now, summary.Period.End, time.Minute)
}
