package services

import (
	"context"
	"math"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

// locationSensitivityThreshold: a click counts as "same location" when the
// provider/requester proximity is at or above the remote weight.
const locationSensitivityThreshold = ProximityRemote

// ConversionReport is the Connection Conversion Rate over a session window.
type ConversionReport struct {
	Sessions    int     `json:"sessions"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"ccr"`
}

// DeadEndReport is the share of sessions that only produced fallback results.
type DeadEndReport struct {
	Sessions int     `json:"sessions"`
	DeadEnds int     `json:"dead_ends"`
	Rate     float64 `json:"dead_end_rate"`
}

// LocationSensitivityReport buckets conversion clicks by whether the clicked
// provider was in (or effectively in) the requester's location. Ratio is nil
// when there were no qualifying clicks.
type LocationSensitivityReport struct {
	SameClicks  int      `json:"same_clicks"`
	OtherClicks int      `json:"other_clicks"`
	TotalClicks int      `json:"total_clicks"`
	Ratio       *float64 `json:"ratio"`
}

// MetricsReport bundles all three metrics over the same window.
type MetricsReport struct {
	Conversion          ConversionReport          `json:"conversion"`
	DeadEnd             DeadEndReport             `json:"dead_end"`
	LocationSensitivity LocationSensitivityReport `json:"location_sensitivity"`
}

// MetricsService computes aggregate quality metrics over the session log.
// Reads are not serialized against appends: a late-arriving action may be
// absent from an in-flight computation, which is acceptable.
type MetricsService struct {
	sessions  repositories.SessionRepository
	registry  repositories.ProviderRepository
	locations *LocationScorer
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(sessions repositories.SessionRepository, registry repositories.ProviderRepository, locations *LocationScorer) *MetricsService {
	return &MetricsService{
		sessions:  sessions,
		registry:  registry,
		locations: locations,
	}
}

// ComputeAll evaluates every metric over one read of the session log.
func (s *MetricsService) ComputeAll(ctx context.Context, filter repositories.SessionFilter) (*MetricsReport, error) {
	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &MetricsReport{
		Conversion: conversionRate(sessions),
		DeadEnd:    deadEndRate(sessions),
	}

	sensitivity, err := s.locationSensitivity(ctx, sessions)
	if err != nil {
		return nil, err
	}
	report.LocationSensitivity = sensitivity

	return report, nil
}

// ConversionRate computes the percentage of sessions with at least one
// contact or form click. Zero sessions yield an explicit zero report.
func (s *MetricsService) ConversionRate(ctx context.Context, filter repositories.SessionFilter) (ConversionReport, error) {
	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return ConversionReport{}, err
	}
	return conversionRate(sessions), nil
}

// DeadEndRate computes the percentage of sessions whose result kind was
// fallback.
func (s *MetricsService) DeadEndRate(ctx context.Context, filter repositories.SessionFilter) (DeadEndReport, error) {
	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return DeadEndReport{}, err
	}
	return deadEndRate(sessions), nil
}

// LocationSensitivity buckets every conversion click by proximity between
// the clicked provider's current registry location and the session's
// requester location. An unresolvable provider id contributes to neither
// bucket.
func (s *MetricsService) LocationSensitivity(ctx context.Context, filter repositories.SessionFilter) (LocationSensitivityReport, error) {
	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return LocationSensitivityReport{}, err
	}
	return s.locationSensitivity(ctx, sessions)
}

func conversionRate(sessions []*entities.Session) ConversionReport {
	report := ConversionReport{Sessions: len(sessions)}
	for _, session := range sessions {
		if session.HasConversion() {
			report.Conversions++
		}
	}
	if report.Sessions > 0 {
		report.Rate = round2(float64(report.Conversions) / float64(report.Sessions) * 100)
	}
	return report
}

func deadEndRate(sessions []*entities.Session) DeadEndReport {
	report := DeadEndReport{Sessions: len(sessions)}
	for _, session := range sessions {
		if session.ResultKind == entities.MatchFallback {
			report.DeadEnds++
		}
	}
	if report.Sessions > 0 {
		report.Rate = round2(float64(report.DeadEnds) / float64(report.Sessions) * 100)
	}
	return report
}

func (s *MetricsService) locationSensitivity(ctx context.Context, sessions []*entities.Session) (LocationSensitivityReport, error) {
	report := LocationSensitivityReport{}
	resolved := make(map[int64]*entities.Provider)

	for _, session := range sessions {
		for _, action := range session.Actions {
			if !action.Kind.IsConversion() || action.ProviderID == nil {
				continue
			}

			provider, ok := resolved[*action.ProviderID]
			if !ok {
				var err error
				provider, err = s.registry.GetByID(ctx, *action.ProviderID)
				if err != nil {
					if apperrors.IsNotFound(err) {
						resolved[*action.ProviderID] = nil
						continue
					}
					return LocationSensitivityReport{}, err
				}
				resolved[*action.ProviderID] = provider
			}
			if provider == nil {
				continue
			}

			if s.locations.Score(provider.Location, session.Location) >= locationSensitivityThreshold {
				report.SameClicks++
			} else {
				report.OtherClicks++
			}
		}
	}

	report.TotalClicks = report.SameClicks + report.OtherClicks
	if report.TotalClicks > 0 {
		ratio := round2(float64(report.SameClicks) / float64(report.TotalClicks))
		report.Ratio = &ratio
	}
	return report, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
