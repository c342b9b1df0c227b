package services

import (
	"sort"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// MatchingPolicy carries the scoring constants of the courier matcher.
type MatchingPolicy struct {
	// Baseline is the score every candidate within the radius starts from.
	Baseline float64
	// DistanceWeight is the maximum score contribution of proximity.
	DistanceWeight float64
	// DistanceCutoffKm is where the proximity contribution decays to zero.
	DistanceCutoffKm float64
	// RatingWeight is the maximum score contribution of the courier rating.
	RatingWeight float64
	// CompletionWeight is the maximum score contribution of the courier's
	// completion rate.
	CompletionWeight float64
	// CapacityBonus is added when the courier's capacity fits the package.
	CapacityBonus float64
	// MinScore discards candidates scoring below it.
	MinScore float64
	// TopN caps how many ranked candidates are returned.
	TopN int
	// AvgSpeedKmh converts route distance into an ETA.
	AvgSpeedKmh float64
}

// DefaultMatchingPolicy returns the standard scoring constants.
func DefaultMatchingPolicy() MatchingPolicy {
	return MatchingPolicy{
		Baseline:         50,
		DistanceWeight:   40,
		DistanceCutoffKm: 10,
		RatingWeight:     30,
		CompletionWeight: 20,
		CapacityBonus:    10,
		MinScore:         50,
		TopN:             10,
		AvgSpeedKmh:      30,
	}
}

// Validate checks the policy constants are usable.
func (p MatchingPolicy) Validate() error {
	if p.DistanceCutoffKm <= 0 {
		return errs.NewValueIsRequiredError("distanceCutoffKm")
	}
	if p.AvgSpeedKmh <= 0 {
		return errs.NewValueIsRequiredError("avgSpeedKmh")
	}
	if p.TopN <= 0 {
		return errs.NewValueIsRequiredError("topN")
	}
	return nil
}

// Candidate is one scored courier in ranking order.
type Candidate struct {
	Courier    courier.Summary
	Score      float64
	DistanceKm float64
	EtaMinutes float64
}

// CourierMatcher ranks available couriers for an order by proximity, rating,
// track record, and capacity.
//
// The ranking is advisory: by the time the orchestrator tries to claim the
// top candidate another order may have taken it, so the caller walks the
// list and claims atomically through the courier directory.
type CourierMatcher struct {
	policy MatchingPolicy
}

// NewCourierMatcher creates a CourierMatcher with the given scoring policy.
func NewCourierMatcher(policy MatchingPolicy) (CourierMatcher, error) {
	if err := policy.Validate(); err != nil {
		return CourierMatcher{}, err
	}
	return CourierMatcher{policy: policy}, nil
}

// Rank scores every candidate against the pickup point and returns the
// best ones, highest score first.
//
// Scoring: baseline, plus a proximity term falling linearly from
// DistanceWeight at the pickup point to zero at the cutoff, plus the rating
// and completion-rate terms scaled by their weights, plus the capacity bonus
// when the package fits. Candidates below MinScore are discarded. Ties break
// toward the courier with more completed deliveries, then by distance.
func (m CourierMatcher) Rank(origin kernel.GeoPoint, weightKg float64, candidates []courier.Summary) ([]Candidate, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		distanceKm, err := origin.DistanceKm(c.Location())
		if err != nil {
			return nil, err
		}

		score := m.score(c, distanceKm, weightKg)
		if score < m.policy.MinScore {
			continue
		}

		ranked = append(ranked, Candidate{
			Courier:    c,
			Score:      score,
			DistanceKm: distanceKm,
			EtaMinutes: distanceKm / m.policy.AvgSpeedKmh * 60,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		ci, cj := ranked[i].Courier.CompletedDeliveries(), ranked[j].Courier.CompletedDeliveries()
		if ci != cj {
			return ci > cj
		}
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if len(ranked) > m.policy.TopN {
		ranked = ranked[:m.policy.TopN]
	}
	return ranked, nil
}

func (m CourierMatcher) score(c courier.Summary, distanceKm, weightKg float64) float64 {
	score := m.policy.Baseline

	proximity := 1 - distanceKm/m.policy.DistanceCutoffKm
	if proximity > 0 {
		score += m.policy.DistanceWeight * proximity
	}

	score += m.policy.RatingWeight * c.Rating() / 5
	score += m.policy.CompletionWeight * c.CompletionRate()

	if c.CanCarry(weightKg) {
		score += m.policy.CapacityBonus
	}
	return score
}
