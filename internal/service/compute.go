package service

import (
	"context"
	"runtime"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/vidinfra/clv/internal/domain/clv"
	"github.com/vidinfra/clv/internal/types"
)

// ComputeService recomputes the full CLV summary for the configured
// period and overwrites prior results. It is a sequential batch pipeline:
// chunked aggregation over eligible users, per-chunk decision resolution
// and access enrichment, a global octile binning pass, group quantile
// construction, and per-user percentile synthesis feeding the sink.
type ComputeService interface {
	// Run computes CLV for the default period ending now.
	Run(ctx context.Context) (*RunSummary, error)

	// RunForPeriod computes CLV for an explicit period.
	RunForPeriod(ctx context.Context, period types.AnalysisPeriod) (*RunSummary, error)
}

// RunSummary reports what a completed run covered.
type RunSummary struct {
	Period        types.AnalysisPeriod
	EligibleUsers int
	ComputedUsers int
	GroupCount    int
}

type computeService struct {
	ServiceParams
}

func NewComputeService(params ServiceParams) ComputeService {
	return &computeService{ServiceParams: params}
}

func (s *computeService) Run(ctx context.Context) (*RunSummary, error) {
	period := types.NewAnalysisPeriod(time.Now().UTC(), s.Config.CLV.PeriodDays)
	return s.RunForPeriod(ctx, period)
}

func (s *computeService) RunForPeriod(ctx context.Context, period types.AnalysisPeriod) (*RunSummary, error) {
	s.Logger.Infow("computing CLV for users having active subscriptions in period",
		"period_start", period.Start,
		"period_end", period.End,
	)

	// Only users with paid subscriptions are considered.
	userIDs, err := s.SubscriptionRepo.EligibleUserIDs(ctx, period)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("fetched eligible user ids, starting chunked aggregation",
		"users", len(userIDs),
		"chunk_size", s.Config.CLV.ChunkSize,
		"heap_mib", heapMiB(),
	)

	// accumulators is the arena of per-user working records; order keeps
	// creation order so every later pass and the final writes are
	// deterministic per run.
	accumulators := make(map[int64]*accumulator)
	order := make([]int64, 0, len(userIDs))
	binner := newOctileBinner()

	for _, chunk := range lo.Chunk(userIDs, s.Config.CLV.ChunkSize) {
		if err := s.aggregateChunk(ctx, chunk, period, accumulators, &order, binner); err != nil {
			return nil, err
		}

		s.Logger.Infow("processed chunk",
			"chunk_users", len(chunk),
			"aggregated_users", len(accumulators),
			"heap_mib", heapMiB(),
		)
	}

	// Global passes: cut points over the full population, then bins.
	binner.computeLadders()
	s.Logger.Infow("putting user parameters into octile bins", "heap_mib", heapMiB())
	for _, userID := range order {
		binner.assignBins(accumulators[userID])
	}

	table := buildGroupQuantileTable(accumulators, order)
	s.Logger.Infow("group quantile table built, starting to compute actual CLVs",
		"groups", table.size(),
		"heap_mib", heapMiB(),
	)

	for i, userID := range order {
		acc := accumulators[userID]
		vector, err := table.synthesize(acc)
		if err != nil {
			return nil, err
		}

		value := &clv.CustomerLifetimeValue{
			UserID:              userID,
			PeriodStart:         period.Start,
			PeriodEnd:           period.End,
			PeriodAmount:        acc.periodAmount,
			Percentile0Amount:   decimal.NewFromFloat(vector.P0),
			Percentile25Amount:  decimal.NewFromFloat(vector.P25),
			Percentile50Amount:  decimal.NewFromFloat(vector.P50),
			Percentile75Amount:  decimal.NewFromFloat(vector.P75),
			Percentile100Amount: decimal.NewFromFloat(vector.P100),
		}
		if err := s.CLVRepo.Upsert(ctx, value); err != nil {
			return nil, err
		}

		if (i+1)%5000 == 0 {
			s.Logger.Infow("CLV computed",
				"done", i+1,
				"total", len(order),
				"heap_mib", heapMiB(),
			)
		}
	}

	s.Logger.Infow("customer lifetime values updated", "users", len(order))

	return &RunSummary{
		Period:        period,
		EligibleUsers: len(userIDs),
		ComputedUsers: len(order),
		GroupCount:    table.size(),
	}, nil
}

// aggregateChunk fetches all qualifying subscription facts for one batch of
// user ids, folds them into the accumulators, resolves the chunk's decision
// attributes, merges access recency, and records the chunk's raw values into
// the octile value sets. Joined rows do not survive the chunk; only the
// accumulators do.
func (s *computeService) aggregateChunk(
	ctx context.Context,
	chunk []int64,
	period types.AnalysisPeriod,
	accumulators map[int64]*accumulator,
	order *[]int64,
	binner *octileBinner,
) error {
	facts, err := s.SubscriptionRepo.ListFacts(ctx, chunk, period)
	if err != nil {
		return err
	}

	for _, fact := range facts {
		acc, ok := accumulators[fact.UserID]
		if !ok {
			acc = newAccumulator(fact.UserID)
			accumulators[fact.UserID] = acc
			*order = append(*order, fact.UserID)
		}
		acc.fold(fact, period)
	}

	// A user in the selector's id set but absent from the fact result is
	// silently skipped: no accumulator exists and no row will be written.
	for _, userID := range chunk {
		if acc, ok := accumulators[userID]; ok {
			acc.resolveDecisions()
		}
	}

	lastAccesses, err := s.AccessRepo.LastAccessDays(ctx, chunk)
	if err != nil {
		return err
	}
	for userID, days := range lastAccesses {
		if acc, ok := accumulators[userID]; ok {
			acc.lastAccessDateInDays = days
		}
	}

	for _, userID := range chunk {
		if acc, ok := accumulators[userID]; ok {
			binner.observe(acc)
		}
	}

	return nil
}

func heapMiB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc / 1024 / 1024
}
