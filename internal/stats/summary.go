// Package stats computes timing statistics over recorded sessions.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

// Summary contains timing and usage statistics for one session.
type Summary struct {
	SessionID      string         `json:"session_id,omitempty"`
	Moves          int            `json:"moves"`
	DurationMs     int64          `json:"duration_ms"`
	MovesPerSecond float64        `json:"moves_per_second"`
	MeanGapMs      float64        `json:"mean_gap_ms"`
	StdDevGapMs    float64        `json:"stddev_gap_ms"`
	MedianGapMs    float64        `json:"median_gap_ms"`
	P95GapMs       float64        `json:"p95_gap_ms"`
	LongestGapMs   int64          `json:"longest_gap_ms"`
	FaceCounts     map[string]int `json:"face_counts"`
	BusiestFace    string         `json:"busiest_face,omitempty"`
	LongestRun     int            `json:"longest_run"`
	LongestRunFace string         `json:"longest_run_face,omitempty"`
}

// faceOrder keeps face iteration deterministic for ties.
var faceOrder = []string{"U", "D", "F", "B", "R", "L"}

// Summarize computes a summary over a session's ordered move records.
func Summarize(records []storage.MoveRecord) Summary {
	s := Summary{
		Moves:      len(records),
		FaceCounts: make(map[string]int),
	}
	if len(records) == 0 {
		return s
	}
	s.SessionID = records[0].SessionID

	for _, r := range records {
		s.FaceCounts[r.Face]++
	}
	best := 0
	for _, face := range faceOrder {
		if c := s.FaceCounts[face]; c > best {
			best = c
			s.BusiestFace = face
		}
	}

	s.LongestRun, s.LongestRunFace = longestRun(records)

	s.DurationMs = records[len(records)-1].OffsetMs - records[0].OffsetMs
	if s.DurationMs > 0 {
		s.MovesPerSecond = float64(len(records)) / (float64(s.DurationMs) / 1000.0)
	}

	gaps := Gaps(records)
	if len(gaps) == 0 {
		return s
	}

	s.MeanGapMs = stat.Mean(gaps, nil)
	if len(gaps) >= 2 {
		s.StdDevGapMs = stat.StdDev(gaps, nil)
	}

	sorted := make([]float64, len(gaps))
	copy(sorted, gaps)
	sort.Float64s(sorted)
	s.MedianGapMs = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P95GapMs = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	s.LongestGapMs = int64(sorted[len(sorted)-1])

	return s
}

// Gaps returns the inter-move gaps in milliseconds.
func Gaps(records []storage.MoveRecord) []float64 {
	if len(records) < 2 {
		return nil
	}
	gaps := make([]float64, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		gaps = append(gaps, float64(records[i].OffsetMs-records[i-1].OffsetMs))
	}
	return gaps
}

// longestRun finds the longest stretch of consecutive same-face moves.
func longestRun(records []storage.MoveRecord) (int, string) {
	bestLen, curLen := 1, 1
	bestFace := records[0].Face

	for i := 1; i < len(records); i++ {
		if records[i].Face == records[i-1].Face {
			curLen++
		} else {
			curLen = 1
		}
		if curLen > bestLen {
			bestLen = curLen
			bestFace = records[i].Face
		}
	}

	return bestLen, bestFace
}
