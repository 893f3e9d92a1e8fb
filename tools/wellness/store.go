package wellness

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pilotedu/studypilot/framework"
)

// Log is one daily wellness check-in. Energy and stress are 1-5 scales.
type Log struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Energy   int     `json:"energy"`
	Stress   int     `json:"stress"`
	Sleep    float64 `json:"sleep"`
	Mood     string  `json:"mood"`
	Exercise bool    `json:"exercise"`
	Notes    string  `json:"notes,omitempty"`
}

// BreakTracker counts wellness breaks across the session.
type BreakTracker struct {
	LastBreak         string `json:"lastBreak,omitempty"`
	BreaksTaken       int    `json:"breaksTaken"`
	TotalBreakMinutes int    `json:"totalBreakMinutes"`
}

// Goals are the student's wellness targets.
type Goals struct {
	DailySleepTarget    float64 `json:"dailySleepTarget"`
	DailyExerciseTarget int     `json:"dailyExerciseTarget"`
	MaxDailyStudyHours  int     `json:"maxDailyStudyHours"`
	BreakFrequency      int     `json:"breakFrequency"`
	TargetStressLevel   int     `json:"targetStressLevel"`
}

// Store owns the wellness tracker state.
type Store struct {
	mu     sync.RWMutex
	clock  framework.Clock
	rng    *rand.Rand
	logs   []Log
	breaks BreakTracker
	goals  Goals
	tips   map[string][]string
}

// NewStore seeds the wellness fixture data. A nil clock falls back to
// time.Now; a nil rng to a time-seeded source.
func NewStore(clock framework.Clock, rng *rand.Rand) *Store {
	if clock == nil {
		clock = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		clock: clock,
		rng:   rng,
		logs:  seedLogs(),
		goals: Goals{
			DailySleepTarget:    7,
			DailyExerciseTarget: 30,
			MaxDailyStudyHours:  6,
			BreakFrequency:      50,
			TargetStressLevel:   3,
		},
		tips: seedTips(),
	}
}

// Logs returns a copy of the check-in log.
func (s *Store) Logs() []Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Log, len(s.logs))
	copy(out, s.logs)
	return out
}

// AddLog appends a check-in.
func (s *Store) AddLog(log Log) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
}

// RecordBreak updates the break counters and returns the new tally.
func (s *Store) RecordBreak(minutes int) BreakTracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breaks.LastBreak = s.clock().UTC().Format(time.RFC3339)
	s.breaks.BreaksTaken++
	s.breaks.TotalBreakMinutes += minutes
	return s.breaks
}

// Tips returns the tip pool for one area.
func (s *Store) Tips(area string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pool, ok := s.tips[area]
	if !ok {
		return nil
	}
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

// AllTips returns every tip across areas, grouped in a stable area order.
func (s *Store) AllTips() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, area := range []string{"stress", "energy", "focus", "sleep"} {
		out = append(out, s.tips[area]...)
	}
	return out
}

// RandomTip draws one tip from an area's pool.
func (s *Store) RandomTip(area string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool := s.tips[area]
	if len(pool) == 0 {
		return ""
	}
	return pool[s.rng.Intn(len(pool))]
}

// Shuffle permutes tips in place with the store's random source.
func (s *Store) Shuffle(tips []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(tips), func(i, j int) {
		tips[i], tips[j] = tips[j], tips[i]
	})
}

func seedLogs() []Log {
	return []Log{
		{ID: "wl_001", Date: "2024-03-15", Energy: 4, Stress: 2, Sleep: 7.5, Mood: "good", Exercise: true},
		{ID: "wl_002", Date: "2024-03-16", Energy: 3, Stress: 3, Sleep: 6, Mood: "okay", Exercise: false},
		{ID: "wl_003", Date: "2024-03-17", Energy: 4, Stress: 4, Sleep: 5.5, Mood: "stressed", Exercise: false},
		{ID: "wl_004", Date: "2024-03-18", Energy: 3, Stress: 3, Sleep: 7, Mood: "okay", Exercise: true},
	}
}

func seedTips() map[string][]string {
	return map[string][]string{
		"stress": {
			"Try the 4-7-8 breathing technique: inhale 4s, hold 7s, exhale 8s",
			"Take a 10-minute walk outside to clear your mind",
			"Write down 3 things you're grateful for today",
			"Practice progressive muscle relaxation",
			"Listen to calming music or nature sounds",
		},
		"energy": {
			"Stand up and stretch for 2 minutes",
			"Have a healthy snack with protein and complex carbs",
			"Get some natural light exposure",
			"Take a 20-minute power nap (not longer!)",
			"Do 10 jumping jacks to boost circulation",
		},
		"focus": {
			"Remove phone from your study area",
			"Use website blockers during study sessions",
			"Try the 2-minute rule: if distracted, refocus for just 2 minutes",
			"Set a specific, achievable goal for this study session",
			"Use background noise like white noise or lo-fi music",
		},
		"sleep": {
			"Avoid screens 1 hour before bed",
			"Keep your bedroom cool (65-68°F / 18-20°C)",
			"Maintain a consistent sleep schedule, even on weekends",
			"Avoid caffeine after 2 PM",
			"Create a relaxing bedtime routine",
		},
	}
}
