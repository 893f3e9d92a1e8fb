package lms

import (
	"strings"
	"sync"
	"time"

	"github.com/pilotedu/studypilot/framework"
)

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	StatusNotStarted AssignmentStatus = "not_started"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusSubmitted  AssignmentStatus = "submitted"
	StatusGraded     AssignmentStatus = "graded"
	StatusUpcoming   AssignmentStatus = "upcoming"
)

// Course is an enrolled course as reported by the LMS. Code is the
// external-facing identifier every other module joins on.
type Course struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Professor   string  `json:"professor"`
	Email       string  `json:"email"`
	Office      string  `json:"office"`
	OfficeHours string  `json:"officeHours"`
	Credits     int     `json:"credits"`
	Semester    string  `json:"semester"`
	Description string  `json:"description"`
	Syllabus    string  `json:"syllabus"`
	Enrolled    bool    `json:"enrolled"`
	Progress    int     `json:"progress"`
	Grade       string  `json:"grade"`
	GradePoints float64 `json:"gradePoints"`
}

// CourseSummary is the lean projection returned when details are not asked for.
type CourseSummary struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Professor string `json:"professor"`
	Progress  int    `json:"progress"`
	Grade     string `json:"grade"`
}

// Assignment is a piece of coursework with a due date and grade weight.
// Weights within a course are informational and are not required to sum to 1.
type Assignment struct {
	ID          string           `json:"id"`
	CourseID    string           `json:"courseId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	DueDate     time.Time        `json:"dueDate"`
	Points      int              `json:"points"`
	Weight      float64          `json:"weight"`
	Status      AssignmentStatus `json:"status"`
	Rubric      []string         `json:"rubric,omitempty"`
}

// Announcement is a course notice.
type Announcement struct {
	ID       string    `json:"id"`
	CourseID string    `json:"courseId"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	PostedAt time.Time `json:"postedAt"`
	Author   string    `json:"author"`
}

// Material is a published course resource.
type Material struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Store owns the in-memory LMS dataset. It stands in for a real LMS API and is
// seeded once at construction.
type Store struct {
	mu            sync.RWMutex
	clock         framework.Clock
	courses       []Course
	assignments   []Assignment
	announcements []Announcement
	materials     []Material
}

// NewStore seeds the LMS fixture data. A nil clock falls back to time.Now.
func NewStore(clock framework.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		clock:         clock,
		courses:       seedCourses(),
		assignments:   seedAssignments(),
		announcements: seedAnnouncements(),
		materials:     seedMaterials(),
	}
}

// Courses returns a copy of the course table.
func (s *Store) Courses() []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Assignments returns a copy of the assignment table.
func (s *Store) Assignments() []Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// courseByCode resolves a course by its external code, case-insensitively.
func (s *Store) courseByCode(code string) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Course{}, false
}

func (s *Store) courseByID(id string) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

func mustTime(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func seedCourses() []Course {
	return []Course{
		{
			ID: "cs301", Code: "CS301", Name: "Algorithms",
			Professor: "Dr. Sarah Smith", Email: "ssmith@university.edu",
			Office: "Science Building 401", OfficeHours: "Mon/Wed 2-4 PM",
			Credits: 4, Semester: "Spring 2024",
			Description: "Advanced algorithm design and analysis",
			Syllabus:    "https://lms.university.edu/cs301/syllabus.pdf",
			Enrolled:    true, Progress: 68, Grade: "B+", GradePoints: 3.3,
		},
		{
			ID: "math202", Code: "MATH202", Name: "Linear Algebra",
			Professor: "Dr. Michael Johnson", Email: "mjohnson@university.edu",
			Office: "Math Building 205", OfficeHours: "Tue/Thu 10 AM-12 PM",
			Credits: 3, Semester: "Spring 2024",
			Description: "Linear equations, matrices, vector spaces",
			Syllabus:    "https://lms.university.edu/math202/syllabus.pdf",
			Enrolled:    true, Progress: 45, Grade: "B", GradePoints: 3.0,
		},
		{
			ID: "eng101", Code: "ENG101", Name: "Academic Writing",
			Professor: "Prof. Emily Williams", Email: "ewilliams@university.edu",
			Office: "Humanities 102", OfficeHours: "Fri 1-3 PM",
			Credits: 3, Semester: "Spring 2024",
			Description: "Fundamentals of academic writing and research",
			Syllabus:    "https://lms.university.edu/eng101/syllabus.pdf",
			Enrolled:    true, Progress: 82, Grade: "A-", GradePoints: 3.7,
		},
	}
}

func seedAssignments() []Assignment {
	return []Assignment{
		{
			ID: "asg_001", CourseID: "cs301", Title: "Project Proposal",
			Description: "Submit a proposal for your algorithms project including problem statement, approach, and timeline.",
			Type:        "project", DueDate: mustTime("2024-03-20T23:59:00"),
			Points: 100, Weight: 0.30, Status: StatusInProgress,
			Rubric: []string{"Problem Statement (20pts)", "Approach (40pts)", "Timeline (20pts)", "References (20pts)"},
		},
		{
			ID: "asg_002", CourseID: "math202", Title: "Problem Set 5",
			Description: "Complete problems 1-15 from Chapter 5: Eigenvalues and Eigenvectors",
			Type:        "homework", DueDate: mustTime("2024-03-22T23:59:00"),
			Points: 50, Weight: 0.05, Status: StatusNotStarted,
		},
		{
			ID: "asg_003", CourseID: "eng101", Title: "Essay Draft",
			Description: "First draft of your research essay (minimum 1500 words)",
			Type:        "essay", DueDate: mustTime("2024-03-25T23:59:00"),
			Points: 75, Weight: 0.15, Status: StatusNotStarted,
			Rubric: []string{"Thesis (15pts)", "Evidence (25pts)", "Analysis (25pts)", "Writing (10pts)"},
		},
		{
			ID: "asg_004", CourseID: "cs301", Title: "Midterm Exam",
			Description: "Covers chapters 1-5: Sorting, Searching, Graph Algorithms",
			Type:        "exam", DueDate: mustTime("2024-03-28T14:00:00"),
			Points: 100, Weight: 0.25, Status: StatusUpcoming,
		},
	}
}

func seedAnnouncements() []Announcement {
	return []Announcement{
		{
			ID: "ann_001", CourseID: "cs301", Title: "Office Hours Cancelled This Week",
			Content:  "Due to conference travel, office hours are cancelled this Thursday. Email me for questions.",
			PostedAt: mustTime("2024-03-15T10:00:00"), Author: "Dr. Sarah Smith",
		},
		{
			ID: "ann_002", CourseID: "math202", Title: "Extra Credit Opportunity",
			Content:  "Attend the Math Colloquium on Friday for 5 bonus points on your next problem set.",
			PostedAt: mustTime("2024-03-14T15:30:00"), Author: "Dr. Michael Johnson",
		},
	}
}

func seedMaterials() []Material {
	return []Material{
		{
			ID: "mat_001", CourseID: "cs301", Title: "Week 8 Slides: Graph Theory",
			Type: "slides", URL: "https://lms.university.edu/cs301/slides_week8.pdf",
			UploadedAt: mustTime("2024-03-18T09:00:00"),
		},
		{
			ID: "mat_002", CourseID: "cs301", Title: "Graph Algorithms Cheat Sheet",
			Type: "document", URL: "https://lms.university.edu/cs301/graph_cheatsheet.pdf",
			UploadedAt: mustTime("2024-03-18T09:05:00"),
		},
		{
			ID: "mat_003", CourseID: "math202", Title: "Eigenvalue Practice Problems",
			Type: "practice", URL: "https://lms.university.edu/math202/eigen_practice.pdf",
			UploadedAt: mustTime("2024-03-17T14:00:00"),
		},
	}
}
