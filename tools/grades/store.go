package grades

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Grade is one scored item within a course.
type Grade struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Weight   float64 `json:"weight"`
	Date     string  `json:"date"`
}

// ScaleBand is one rung of the letter-grade scale.
type ScaleBand struct {
	Letter string
	Min    float64
	GPA    float64
}

// gradeScale is ordered from the highest band down; percentageToLetter walks it
// top to bottom and returns the first band the percentage clears.
var gradeScale = []ScaleBand{
	{"A+", 97, 4.0},
	{"A", 93, 4.0},
	{"A-", 90, 3.7},
	{"B+", 87, 3.3},
	{"B", 83, 3.0},
	{"B-", 80, 2.7},
	{"C+", 77, 2.3},
	{"C", 73, 2.0},
	{"C-", 70, 1.7},
	{"D+", 67, 1.3},
	{"D", 63, 1.0},
	{"D-", 60, 0.7},
	{"F", 0, 0.0},
}

func percentageToLetter(percentage float64) ScaleBand {
	for _, band := range gradeScale {
		if percentage >= band.Min {
			return band
		}
	}
	return ScaleBand{"F", 0, 0.0}
}

func scaleBand(letter string) (ScaleBand, bool) {
	for _, band := range gradeScale {
		if band.Letter == letter {
			return band, true
		}
	}
	return ScaleBand{}, false
}

// weightedAverage computes the weight-normalized percentage over graded items.
func weightedAverage(grades []Grade) float64 {
	var totalWeight, weightedSum float64
	for _, g := range grades {
		percentage := g.Score / g.MaxScore * 100
		weightedSum += percentage * g.Weight
		totalWeight += g.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// Store owns the grade book. Courses keep insertion order so summaries are
// reproducible.
type Store struct {
	mu      sync.RWMutex
	rng     *rand.Rand
	order   []string
	grades  map[string][]Grade
	weights map[string]map[string]float64
}

// NewStore seeds the grade fixture data. A nil rng falls back to a
// time-seeded source.
func NewStore(rng *rand.Rand) *Store {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		rng:     rng,
		order:   []string{"cs301", "math202", "eng101"},
		grades:  seedGrades(),
		weights: seedWeights(),
	}
}

// CourseIDs returns the graded course identifiers in stable order.
func (s *Store) CourseIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Grades returns a copy of one course's graded items, in recording order.
func (s *Store) Grades(courseID string) []Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grades, ok := s.grades[strings.ToLower(courseID)]
	if !ok {
		return nil
	}
	out := make([]Grade, len(grades))
	copy(out, grades)
	return out
}

// Weights returns the category weight table for one course.
func (s *Store) Weights(courseID string) map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	weights, ok := s.weights[strings.ToLower(courseID)]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(weights))
	for k, v := range weights {
		out[k] = v
	}
	return out
}

func seedGrades() map[string][]Grade {
	return map[string][]Grade{
		"cs301": {
			{ID: "g_001", Title: "Homework 1", Type: "homework", Score: 45, MaxScore: 50, Weight: 0.05, Date: "2024-02-01"},
			{ID: "g_002", Title: "Homework 2", Type: "homework", Score: 48, MaxScore: 50, Weight: 0.05, Date: "2024-02-15"},
			{ID: "g_003", Title: "Homework 3", Type: "homework", Score: 42, MaxScore: 50, Weight: 0.05, Date: "2024-03-01"},
			{ID: "g_004", Title: "Quiz 1", Type: "quiz", Score: 18, MaxScore: 20, Weight: 0.05, Date: "2024-02-10"},
			{ID: "g_005", Title: "Quiz 2", Type: "quiz", Score: 16, MaxScore: 20, Weight: 0.05, Date: "2024-02-24"},
			{ID: "g_006", Title: "Lab 1", Type: "lab", Score: 95, MaxScore: 100, Weight: 0.10, Date: "2024-02-20"},
		},
		"math202": {
			{ID: "g_007", Title: "Problem Set 1", Type: "homework", Score: 45, MaxScore: 50, Weight: 0.05, Date: "2024-02-05"},
			{ID: "g_008", Title: "Problem Set 2", Type: "homework", Score: 40, MaxScore: 50, Weight: 0.05, Date: "2024-02-19"},
			{ID: "g_009", Title: "Problem Set 3", Type: "homework", Score: 38, MaxScore: 50, Weight: 0.05, Date: "2024-03-04"},
			{ID: "g_010", Title: "Problem Set 4", Type: "homework", Score: 42, MaxScore: 50, Weight: 0.05, Date: "2024-03-11"},
			{ID: "g_011", Title: "Quiz 1", Type: "quiz", Score: 14, MaxScore: 20, Weight: 0.05, Date: "2024-02-12"},
		},
		"eng101": {
			{ID: "g_012", Title: "Essay 1", Type: "essay", Score: 88, MaxScore: 100, Weight: 0.15, Date: "2024-02-08"},
			{ID: "g_013", Title: "Essay 2", Type: "essay", Score: 92, MaxScore: 100, Weight: 0.15, Date: "2024-02-28"},
			{ID: "g_014", Title: "Discussion Posts", Type: "participation", Score: 48, MaxScore: 50, Weight: 0.10, Date: "2024-03-10"},
		},
	}
}

func seedWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"cs301": {
			"homework": 0.20,
			"quiz":     0.10,
			"lab":      0.20,
			"midterm":  0.20,
			"project":  0.30,
		},
		"math202": {
			"homework": 0.30,
			"quiz":     0.15,
			"midterm":  0.25,
			"final":    0.30,
		},
		"eng101": {
			"essay":         0.60,
			"participation": 0.20,
			"final_project": 0.20,
		},
	}
}
