package types

// CLVBucket classifies a user by where their period spend sits relative to
// the persisted percentile vector. Buckets below the top one are half-open
// ranges; the top bucket includes the maximum.
type CLVBucket string

const (
	// CLVBucket25 matches period_amount in [p0, p25).
	CLVBucket25 CLVBucket = "bucket_25"
	// CLVBucket50 matches period_amount in [p25, p50).
	CLVBucket50 CLVBucket = "bucket_50"
	// CLVBucket75 matches period_amount in [p50, p75).
	CLVBucket75 CLVBucket = "bucket_75"
	// CLVBucket100 matches period_amount in [p75, p100].
	CLVBucket100 CLVBucket = "bucket_100"
)

// CLVBuckets returns all buckets in ascending order.
func CLVBuckets() []CLVBucket {
	return []CLVBucket{CLVBucket25, CLVBucket50, CLVBucket75, CLVBucket100}
}

func (b CLVBucket) Validate() bool {
	switch b {
	case CLVBucket25, CLVBucket50, CLVBucket75, CLVBucket100:
		return true
	}
	return false
}
