package study

import (
	"strings"
	"sync"
	"time"

	"github.com/pilotedu/studypilot/framework"
)

// Session is a completed study session.
type Session struct {
	ID            string `json:"id"`
	CourseID      string `json:"courseId,omitempty"`
	Topic         string `json:"topic"`
	Duration      int    `json:"duration"`
	Date          string `json:"date"`
	Effectiveness int    `json:"effectiveness"`
	Notes         string `json:"notes,omitempty"`
}

// Technique is a named study method.
type Technique struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BestFor     []string `json:"bestFor"`
}

// Topic is a unit of course material. EstimatedHours is drawn down as study
// plans allocate time against it; at zero the topic is marked completed.
type Topic struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Difficulty     string  `json:"difficulty"`
	EstimatedHours float64 `json:"estimatedHours"`
	Completed      bool    `json:"completed"`
}

// Store owns the study tracker state.
type Store struct {
	mu         sync.RWMutex
	clock      framework.Clock
	sessions   []Session
	techniques map[string]Technique
	topicOrder []string
	topics     map[string][]*Topic
}

// NewStore seeds the study fixture data. A nil clock falls back to time.Now.
func NewStore(clock framework.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		clock:      clock,
		sessions:   seedSessions(),
		techniques: seedTechniques(),
		topicOrder: []string{"cs301", "math202", "eng101"},
		topics:     seedTopics(),
	}
}

// Sessions returns a copy of the session log.
func (s *Store) Sessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// AddSession appends to the session log.
func (s *Store) AddSession(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, session)
}

// Technique resolves a technique by key, falling back to pomodoro.
func (s *Store) Technique(key string) Technique {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.techniques[key]; ok {
		return t
	}
	return s.techniques["pomodoro"]
}

// TopicCourseIDs returns the course identifiers that carry topics, in stable
// order.
func (s *Store) TopicCourseIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.topicOrder))
	copy(out, s.topicOrder)
	return out
}

// Topics returns snapshot copies of one course's topics.
func (s *Store) Topics(courseID string) []Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pointers := s.topics[strings.ToLower(courseID)]
	out := make([]Topic, 0, len(pointers))
	for _, t := range pointers {
		out = append(out, *t)
	}
	return out
}

// PendingTopics returns live references to the incomplete topics of one
// course, for callers that allocate study time against them.
func (s *Store) PendingTopics(courseID string) []*Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Topic
	for _, t := range s.topics[strings.ToLower(courseID)] {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func seedSessions() []Session {
	return []Session{
		{ID: "ss_001", CourseID: "cs301", Topic: "Graph Algorithms", Duration: 90, Date: "2024-03-15", Effectiveness: 4},
		{ID: "ss_002", CourseID: "math202", Topic: "Eigenvalues", Duration: 60, Date: "2024-03-16", Effectiveness: 3},
		{ID: "ss_003", CourseID: "cs301", Topic: "Dynamic Programming", Duration: 120, Date: "2024-03-17", Effectiveness: 5},
	}
}

func seedTechniques() map[string]Technique {
	return map[string]Technique{
		"pomodoro": {
			Name:        "Pomodoro Technique",
			Description: "25 min focus + 5 min break, repeat 4x, then 15-30 min break",
			BestFor:     []string{"heavy reading", "practice problems", "essay writing"},
		},
		"activeRecall": {
			Name:        "Active Recall",
			Description: "Test yourself without looking at notes, then review gaps",
			BestFor:     []string{"memorization", "exam prep", "concept learning"},
		},
		"spacedRepetition": {
			Name:        "Spaced Repetition",
			Description: "Review material at increasing intervals",
			BestFor:     []string{"long-term retention", "vocabulary", "formulas"},
		},
		"feynman": {
			Name:        "Feynman Technique",
			Description: "Explain concepts in simple terms as if teaching someone",
			BestFor:     []string{"complex topics", "deep understanding", "debugging knowledge gaps"},
		},
	}
}

func seedTopics() map[string][]*Topic {
	return map[string][]*Topic{
		"cs301": {
			{ID: "t_001", Name: "Sorting Algorithms", Difficulty: "medium", EstimatedHours: 3, Completed: true},
			{ID: "t_002", Name: "Searching Algorithms", Difficulty: "easy", EstimatedHours: 2, Completed: true},
			{ID: "t_003", Name: "Graph Theory Basics", Difficulty: "medium", EstimatedHours: 4, Completed: true},
			{ID: "t_004", Name: "Graph Algorithms (BFS/DFS)", Difficulty: "medium", EstimatedHours: 5, Completed: false},
			{ID: "t_005", Name: "Dynamic Programming", Difficulty: "hard", EstimatedHours: 8, Completed: false},
			{ID: "t_006", Name: "Greedy Algorithms", Difficulty: "medium", EstimatedHours: 4, Completed: false},
		},
		"math202": {
			{ID: "t_007", Name: "Systems of Linear Equations", Difficulty: "easy", EstimatedHours: 3, Completed: true},
			{ID: "t_008", Name: "Matrix Operations", Difficulty: "easy", EstimatedHours: 2, Completed: true},
			{ID: "t_009", Name: "Determinants", Difficulty: "medium", EstimatedHours: 3, Completed: false},
			{ID: "t_010", Name: "Vector Spaces", Difficulty: "hard", EstimatedHours: 5, Completed: false},
			{ID: "t_011", Name: "Eigenvalues & Eigenvectors", Difficulty: "hard", EstimatedHours: 6, Completed: false},
		},
		"eng101": {
			{ID: "t_012", Name: "Thesis Development", Difficulty: "medium", EstimatedHours: 2, Completed: true},
			{ID: "t_013", Name: "Research Methods", Difficulty: "medium", EstimatedHours: 3, Completed: true},
			{ID: "t_014", Name: "Citation Styles", Difficulty: "easy", EstimatedHours: 1, Completed: true},
			{ID: "t_015", Name: "Argumentation", Difficulty: "medium", EstimatedHours: 3, Completed: false},
		},
	}
}
