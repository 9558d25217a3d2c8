package service

import (
	"context"

	ierr "github.com/vidinfra/clv/internal/errors"
	"github.com/vidinfra/clv/internal/types"
)

// SegmentService classifies users into CLV buckets based on where their
// period spend sits inside their persisted percentile vector. It reads
// the summary table only; the compute pipeline is the sole writer.
type SegmentService interface {
	// UserIDsInBuckets returns the ids of all users matching any of the
	// given buckets.
	UserIDsInBuckets(ctx context.Context, buckets []types.CLVBucket) ([]int64, error)

	// BucketOf returns the bucket of a single user.
	BucketOf(ctx context.Context, userID int64) (types.CLVBucket, error)
}

type segmentService struct {
	ServiceParams
}

func NewSegmentService(params ServiceParams) SegmentService {
	return &segmentService{ServiceParams: params}
}

func (s *segmentService) UserIDsInBuckets(ctx context.Context, buckets []types.CLVBucket) ([]int64, error) {
	for _, bucket := range buckets {
		if !bucket.Validate() {
			return nil, ierr.NewErrorf("unknown clv bucket %q", bucket).
				WithHint("Valid buckets are bucket_25, bucket_50, bucket_75 and bucket_100").
				Mark(ierr.ErrValidation)
		}
	}
	if len(buckets) == 0 {
		return nil, nil
	}
	return s.CLVRepo.ListUserIDsByBuckets(ctx, buckets)
}

func (s *segmentService) BucketOf(ctx context.Context, userID int64) (types.CLVBucket, error) {
	value, err := s.CLVRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	bucket, ok := value.Bucket()
	if !ok {
		return "", ierr.NewErrorf("period amount of user %d falls outside its percentile range", userID).
			Mark(ierr.ErrValidation)
	}
	return bucket, nil
}
