package service

import (
	"context"

	"github.com/vidinfra/clv/internal/domain/clv"
	ierr "github.com/vidinfra/clv/internal/errors"
)

const (
	defaultThermometerHeightPx     = 200
	minThermometerQuartileHeightPx = 30
	maxThermometerQuartileHeightPx = 120
)

// Thermometer holds the pixel heights of the four quartile segments of the
// CLV widget plus the user's own marker height, measured from the bottom
// segment.
type Thermometer struct {
	Q1        int `json:"q1"`
	Q2        int `json:"q2"`
	Q3        int `json:"q3"`
	Q4        int `json:"q4"`
	UserValue int `json:"user_value"`
}

// ThermometerService renders the persisted CLV summary of a user as
// proportional bar heights. Purely a read-only consumer of the five
// percentile fields.
type ThermometerService interface {
	Render(ctx context.Context, userID int64) (*Thermometer, error)
}

type thermometerService struct {
	ServiceParams
}

func NewThermometerService(params ServiceParams) ThermometerService {
	return &thermometerService{ServiceParams: params}
}

func (s *thermometerService) Render(ctx context.Context, userID int64) (*Thermometer, error) {
	value, err := s.CLVRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RenderThermometer(value)
}

// RenderThermometer computes the widget geometry from a summary row.
// Segment heights are proportional to the quartile ranges over a 200px
// thermometer, scaled up uniformly so no segment is under 30px, then
// capped per segment at 120px (the user marker inside a capped segment is
// rescaled with it).
func RenderThermometer(value *clv.CustomerLifetimeValue) (*Thermometer, error) {
	p0 := value.Percentile0Amount.InexactFloat64()
	p25 := value.Percentile25Amount.InexactFloat64()
	p50 := value.Percentile50Amount.InexactFloat64()
	p75 := value.Percentile75Amount.InexactFloat64()
	p100 := value.Percentile100Amount.InexactFloat64()
	amount := value.PeriodAmount.InexactFloat64()

	fullRange := p100 - p0
	if fullRange <= 0 {
		// Degenerate ladder: all group quantile points collapsed to one
		// value. There is nothing proportional to draw.
		return nil, ierr.NewErrorf("degenerate percentile range for user %d", value.UserID).
			WithHint("All percentile amounts are equal; the thermometer cannot be scaled").
			Mark(ierr.ErrValidation)
	}

	lowers := [4]float64{p0, p25, p50, p75}
	uppers := [4]float64{p25, p50, p75, p100}

	var segments, markers [4]float64
	for i := 0; i < 4; i++ {
		width := uppers[i] - lowers[i]
		segments[i] = width / fullRange * defaultThermometerHeightPx

		// Fraction of this segment the user's own spend fills.
		fraction := 0.0
		if width > 0 {
			fraction = (amount - lowers[i]) / width
			if fraction < 0 {
				fraction = 0
			}
			if fraction > 1 {
				fraction = 1
			}
		} else if amount >= uppers[i] {
			fraction = 1
		}
		markers[i] = fraction * segments[i]
	}

	// Scale up (ratio kept) so each segment has the minimum height.
	minHeight := segments[0]
	for _, h := range segments[1:] {
		if h < minHeight {
			minHeight = h
		}
	}
	if minHeight > 0 && minHeight < minThermometerQuartileHeightPx {
		factor := minThermometerQuartileHeightPx / minHeight
		for i := range segments {
			segments[i] *= factor
			markers[i] *= factor
		}
	}

	// Cap each segment (ratio may not be kept), de-scaling its marker with it.
	for i := range segments {
		if segments[i] > maxThermometerQuartileHeightPx {
			markers[i] = markers[i] * maxThermometerQuartileHeightPx / segments[i]
			segments[i] = maxThermometerQuartileHeightPx
		}
	}

	userValue := markers[0] + markers[1] + markers[2] + markers[3]

	return &Thermometer{
		Q1:        int(segments[0]),
		Q2:        int(segments[1]),
		Q3:        int(segments[2]),
		Q4:        int(segments[3]),
		UserValue: int(userValue),
	}, nil
}
