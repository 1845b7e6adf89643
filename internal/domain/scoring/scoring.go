// Package scoring computes the five-factor compatibility score between
// two profile snapshots.
//
// The score is directional: the interest factor normalizes by the
// source's interest-set size and the activity factor reads only the
// target's last-seen time, so Score(a, b) and Score(b, a) may differ.
// Callers rank candidates from a fixed viewer's perspective and depend
// on that, so the asymmetry is intentional.
package scoring

import (
	"math"
	"time"

	"github.com/jamaine1984/indira/internal/domain/model"
)

// Factor weights. They sum to 100, the score ceiling.
const (
	weightInterests    = 30.0
	weightDistance     = 25.0
	weightAge          = 15.0
	weightActivity     = 15.0
	weightCompleteness = 10.0
)

// earthRadiusKm is the sphere radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithClock sets the time source used by the activity factor.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// Calculator computes compatibility scores. It is pure and total:
// missing inputs degrade a factor to zero contribution, never an error.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score computes the compatibility score of target from source's
// perspective. The result is bounded to [0, 100] and rounded to two
// decimal places.
func (c *Calculator) Score(source, target model.Profile) float64 {
	total := interestScore(source, target) +
		distanceScore(source, target) +
		ageScore(source, target) +
		activityScore(target, c.now()) +
		completenessScore(target)
	return round2(total)
}

// interestScore awards up to 30 points for the share of the source's
// interests the target also has. Zero if either set is empty.
func interestScore(source, target model.Profile) float64 {
	if len(source.Interests) == 0 || len(target.Interests) == 0 {
		return 0
	}
	targetSet := make(map[string]struct{}, len(target.Interests))
	for _, it := range target.Interests {
		targetSet[it] = struct{}{}
	}
	common := 0
	for _, it := range source.Interests {
		if _, ok := targetSet[it]; ok {
			common++
		}
	}
	return float64(common) / float64(len(source.Interests)) * weightInterests
}

// distanceScore awards up to 25 points by great-circle proximity.
// Zero if either location is missing.
func distanceScore(source, target model.Profile) float64 {
	if source.Location == nil || target.Location == nil {
		return 0
	}
	km := haversineKm(*source.Location, *target.Location)
	switch {
	case km < 5:
		return weightDistance
	case km < 25:
		return 20
	case km < 50:
		return 15
	case km < 100:
		return 10
	default:
		return 5
	}
}

// ageScore awards up to 15 points by age gap. Zero if either age is
// missing.
func ageScore(source, target model.Profile) float64 {
	if source.Age == nil || target.Age == nil {
		return 0
	}
	gap := *source.Age - *target.Age
	if gap < 0 {
		gap = -gap
	}
	switch {
	case gap <= 2:
		return weightAge
	case gap <= 5:
		return 12
	case gap <= 10:
		return 8
	default:
		return 4
	}
}

// activityScore awards up to 15 points by how recently the target was
// seen. Zero if last-seen is missing.
func activityScore(target model.Profile, now time.Time) float64 {
	if target.LastSeen == nil {
		return 0
	}
	hours := now.Sub(*target.LastSeen).Hours()
	switch {
	case hours < 1:
		return weightActivity
	case hours < 24:
		return 12
	case hours < 72:
		return 8
	default:
		return 4
	}
}

// completenessScore awards up to 10 points for target profile
// completeness: photos 4, bio 3, interests 3.
func completenessScore(target model.Profile) float64 {
	score := 0.0
	if len(target.Photos) > 0 {
		score += 4
	}
	if target.Bio != "" {
		score += 3
	}
	if len(target.Interests) > 0 {
		score += 3
	}
	return score
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(a, b model.Location) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
