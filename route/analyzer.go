// Package route estimates travel time over the configured delivery route.
package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Segment is one leg of the delivery route.
type Segment struct {
	ID          string
	Origin      string
	Destination string
	DistanceKm  float64
	SpeedKmh    float64
	Congestion  string
}

// Source supplies the route segments in travel order.
type Source interface {
	Segments(ctx context.Context) ([]Segment, error)
}

// StaticSource serves a fixed list of segments.
type StaticSource []Segment

func (s StaticSource) Segments(context.Context) ([]Segment, error) {
	return append([]Segment(nil), s...), nil
}

var ErrNoSegments = errors.New("no route segments available")

// Congestion levels in increasing severity, with the travel-time
// multiplier each applies.
var congestionLevels = []struct {
	name       string
	multiplier float64
}{
	{"Low", 1.0},
	{"Medium", 1.3},
	{"High", 1.7},
}

func congestionRank(level string) (int, error) {
	for i, c := range congestionLevels {
		if c.name == level {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown congestion level %q", level)
}

type LegReport struct {
	ID               string  `json:"id"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes float64 `json:"estimated_minutes"`
	Congestion       string  `json:"congestion"`
}

type Analysis struct {
	Segments         int         `json:"segments"`
	TotalDistanceKm  float64     `json:"total_distance_km"`
	EstimatedMinutes float64     `json:"estimated_minutes"`
	CongestionLevel  string      `json:"congestion_level"`
	Bottleneck       LegReport   `json:"bottleneck"`
	Recommendation   string      `json:"recommendation"`
	Legs             []LegReport `json:"legs"`
}

type Analyzer struct {
	source Source
}

func NewAnalyzer(source Source) *Analyzer {
	return &Analyzer{source: source}
}

// Analyze takes no parameters from the caller; everything comes from the
// configured source.
func (a *Analyzer) Analyze(ctx context.Context) (*Analysis, error) {
	if a == nil || a.source == nil {
		return nil, errors.New("route analyzer not configured")
	}
	segments, err := a.source.Segments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load route segments: %w", err)
	}
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	var (
		totalKm, totalMin decimal.Decimal
		worst             int
		bottleneck        = -1
		bottleneckMin     decimal.Decimal
		legs              = make([]LegReport, 0, len(segments))
	)
	for i, s := range segments {
		if s.SpeedKmh <= 0 {
			return nil, fmt.Errorf("segment %s: speed must be positive", s.ID)
		}
		rank, err := congestionRank(s.Congestion)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", s.ID, err)
		}
		distance := decimal.NewFromFloat(s.DistanceKm)
		minutes := distance.
			Div(decimal.NewFromFloat(s.SpeedKmh)).
			Mul(decimal.NewFromInt(60)).
			Mul(decimal.NewFromFloat(congestionLevels[rank].multiplier))

		totalKm = totalKm.Add(distance)
		totalMin = totalMin.Add(minutes)
		if rank > worst {
			worst = rank
		}
		if bottleneck < 0 || minutes.GreaterThan(bottleneckMin) {
			bottleneck, bottleneckMin = i, minutes
		}
		legs = append(legs, LegReport{
			ID:               s.ID,
			Origin:           s.Origin,
			Destination:      s.Destination,
			DistanceKm:       s.DistanceKm,
			EstimatedMinutes: minutes.Round(1).InexactFloat64(),
			Congestion:       s.Congestion,
		})
	}

	analysis := &Analysis{
		Segments:         len(segments),
		TotalDistanceKm:  totalKm.Round(1).InexactFloat64(),
		EstimatedMinutes: totalMin.Round(1).InexactFloat64(),
		CongestionLevel:  congestionLevels[worst].name,
		Bottleneck:       legs[bottleneck],
		Legs:             legs,
	}
	analysis.Recommendation = recommend(analysis)
	return analysis, nil
}

func recommend(a *Analysis) string {
	switch a.CongestionLevel {
	case "High":
		return fmt.Sprintf("Dispatch early or reroute around %s (%s to %s)", a.Bottleneck.ID, a.Bottleneck.Origin, a.Bottleneck.Destination)
	case "Medium":
		return fmt.Sprintf("Expect moderate delays, slowest leg is %s", a.Bottleneck.ID)
	default:
		return "Route clear"
	}
}
