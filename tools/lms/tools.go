package lms

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pilotedu/studypilot/framework"
)

// Tools returns the LMS connector tool set backed by the given store.
func Tools(store *Store) []framework.Tool {
	return []framework.Tool{
		&GetCoursesTool{store: store},
		&GetCourseDetailsTool{store: store},
		&GetAssignmentsTool{store: store},
		&GetAnnouncementsTool{store: store},
		&GetMaterialsTool{store: store},
	}
}

// GetCoursesTool lists enrolled courses.
type GetCoursesTool struct {
	store *Store
}

// CoursesResult is the get_courses payload.
type CoursesResult struct {
	Count     int    `json:"count"`
	Courses   any    `json:"courses"`
	Formatted string `json:"formatted"`
}

func (t *GetCoursesTool) Name() string { return "get_courses" }
func (t *GetCoursesTool) Description() string {
	return "Retrieves all courses the student is enrolled in for the current semester"
}
func (t *GetCoursesTool) Category() string { return "lms" }
func (t *GetCoursesTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"semester":       {Type: "string", Description: `Filter by semester (e.g., "Spring 2024")`},
			"includeDetails": {Type: "boolean", Description: "Include detailed course information"},
		},
	}
}

func (t *GetCoursesTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	courses := t.store.Courses()

	if semester := framework.StringArg(args, "semester", ""); semester != "" {
		filtered := courses[:0]
		for _, c := range courses {
			if c.Semester == semester {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}

	lines := make([]string, 0, len(courses))
	for _, c := range courses {
		lines = append(lines, fmt.Sprintf("📚 **%s** - %s (%s) | Progress: %d%% | Grade: %s",
			c.Code, c.Name, c.Professor, c.Progress, c.Grade))
	}

	result := CoursesResult{Count: len(courses), Formatted: strings.Join(lines, "\n")}
	if framework.BoolArg(args, "includeDetails", false) {
		result.Courses = courses
	} else {
		lean := make([]CourseSummary, 0, len(courses))
		for _, c := range courses {
			lean = append(lean, CourseSummary{
				ID: c.ID, Code: c.Code, Name: c.Name,
				Professor: c.Professor, Progress: c.Progress, Grade: c.Grade,
			})
		}
		result.Courses = lean
	}
	return result, nil
}

// GetCourseDetailsTool fetches one course by code.
type GetCourseDetailsTool struct {
	store *Store
}

// CourseDetailsResult reports found=false instead of erroring on unknown codes.
type CourseDetailsResult struct {
	Found     bool    `json:"found"`
	Course    *Course `json:"course,omitempty"`
	Message   string  `json:"message,omitempty"`
	Formatted string  `json:"formatted,omitempty"`
}

func (t *GetCourseDetailsTool) Name() string { return "get_course_details" }
func (t *GetCourseDetailsTool) Description() string {
	return "Retrieves detailed information about a specific course"
}
func (t *GetCourseDetailsTool) Category() string { return "lms" }
func (t *GetCourseDetailsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode": {Type: "string", Description: `Course code (e.g., "CS301")`},
		},
		Required: []string{"courseCode"},
	}
}

func (t *GetCourseDetailsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	code := framework.StringArg(args, "courseCode", "")
	course, ok := t.store.courseByCode(code)
	if !ok {
		return CourseDetailsResult{Found: false, Message: fmt.Sprintf("Course %s not found", code)}, nil
	}

	formatted := fmt.Sprintf(`📚 **%s: %s**
👨‍🏫 Professor: %s
📧 Email: %s
🏢 Office: %s
⏰ Office Hours: %s

📊 Progress: %d%%
📈 Current Grade: %s (%.1f GPA)
📖 Credits: %d

📝 %s`,
		course.Code, course.Name, course.Professor, course.Email, course.Office,
		course.OfficeHours, course.Progress, course.Grade, course.GradePoints,
		course.Credits, course.Description)

	return CourseDetailsResult{Found: true, Course: &course, Formatted: formatted}, nil
}

// GetAssignmentsTool lists assignments, optionally filtered, sorted by due date.
type GetAssignmentsTool struct {
	store *Store
}

// AssignmentView is an assignment enriched with its course and a derived
// urgency bucket based on days until due.
type AssignmentView struct {
	Assignment
	CourseCode string `json:"courseCode"`
	CourseName string `json:"courseName"`
	DaysUntil  int    `json:"daysUntil"`
	Urgency    string `json:"urgency"`
}

// AssignmentsResult is the get_assignments payload.
type AssignmentsResult struct {
	Count       int              `json:"count"`
	Assignments []AssignmentView `json:"assignments"`
	Formatted   string           `json:"formatted"`
}

func (t *GetAssignmentsTool) Name() string { return "get_assignments" }
func (t *GetAssignmentsTool) Description() string {
	return "Retrieves assignments for a course or all courses"
}
func (t *GetAssignmentsTool) Category() string { return "lms" }
func (t *GetAssignmentsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode": {Type: "string", Description: "Filter by course code"},
			"status": {
				Type: "string",
				Enum: []string{"all", "not_started", "in_progress", "submitted", "graded", "upcoming"},
				Description: "Filter by assignment status",
			},
			"limit": {Type: "number", Description: "Maximum number of assignments to return"},
		},
	}
}

func (t *GetAssignmentsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	assignments := t.store.Assignments()

	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		if course, ok := t.store.courseByCode(code); ok {
			filtered := assignments[:0]
			for _, a := range assignments {
				if a.CourseID == course.ID {
					filtered = append(filtered, a)
				}
			}
			assignments = filtered
		}
	}

	if status := framework.StringArg(args, "status", ""); status != "" && status != "all" {
		filtered := assignments[:0]
		for _, a := range assignments {
			if string(a.Status) == status {
				filtered = append(filtered, a)
			}
		}
		assignments = filtered
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].DueDate.Before(assignments[j].DueDate)
	})

	if limit := framework.IntArg(args, "limit", 0); limit > 0 && limit < len(assignments) {
		assignments = assignments[:limit]
	}

	now := t.store.clock()
	views := make([]AssignmentView, 0, len(assignments))
	var lines []string
	for _, a := range assignments {
		view := AssignmentView{Assignment: a}
		if course, ok := t.store.courseByID(a.CourseID); ok {
			view.CourseCode = course.Code
			view.CourseName = course.Name
		}
		view.DaysUntil = daysUntil(now, a.DueDate)
		view.Urgency = urgencyFor(view.DaysUntil)
		views = append(views, view)

		lines = append(lines, fmt.Sprintf(`%s **%s** (%s)
   📅 Due: %s (%d days)
   📊 Weight: %.0f%% | Points: %d
   📋 Status: %s`,
			urgencyEmoji(view.Urgency), a.Title, view.CourseCode,
			a.DueDate.Format("Jan 2, 2006"), view.DaysUntil,
			a.Weight*100, a.Points,
			strings.ReplaceAll(string(a.Status), "_", " ")))
	}

	return AssignmentsResult{
		Count:       len(views),
		Assignments: views,
		Formatted:   strings.Join(lines, "\n\n"),
	}, nil
}

// GetAnnouncementsTool lists recent course announcements, newest first.
type GetAnnouncementsTool struct {
	store *Store
}

// AnnouncementView carries the resolved course code.
type AnnouncementView struct {
	Announcement
	CourseCode string `json:"courseCode"`
}

// AnnouncementsResult is the get_announcements payload.
type AnnouncementsResult struct {
	Count         int                `json:"count"`
	Announcements []AnnouncementView `json:"announcements"`
	Formatted     string             `json:"formatted"`
}

func (t *GetAnnouncementsTool) Name() string { return "get_announcements" }
func (t *GetAnnouncementsTool) Description() string {
	return "Retrieves recent announcements from courses"
}
func (t *GetAnnouncementsTool) Category() string { return "lms" }
func (t *GetAnnouncementsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode": {Type: "string", Description: "Filter by course code"},
			"limit":      {Type: "number", Description: "Maximum number of announcements"},
		},
	}
}

func (t *GetAnnouncementsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	t.store.mu.RLock()
	announcements := make([]Announcement, len(t.store.announcements))
	copy(announcements, t.store.announcements)
	t.store.mu.RUnlock()

	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		if course, ok := t.store.courseByCode(code); ok {
			filtered := announcements[:0]
			for _, a := range announcements {
				if a.CourseID == course.ID {
					filtered = append(filtered, a)
				}
			}
			announcements = filtered
		}
	}

	sort.SliceStable(announcements, func(i, j int) bool {
		return announcements[i].PostedAt.After(announcements[j].PostedAt)
	})

	if limit := framework.IntArg(args, "limit", 0); limit > 0 && limit < len(announcements) {
		announcements = announcements[:limit]
	}

	views := make([]AnnouncementView, 0, len(announcements))
	var lines []string
	for _, a := range announcements {
		view := AnnouncementView{Announcement: a}
		if course, ok := t.store.courseByID(a.CourseID); ok {
			view.CourseCode = course.Code
		}
		views = append(views, view)
		lines = append(lines, fmt.Sprintf("📢 **%s** (%s)\n   %s\n   — %s, %s",
			a.Title, view.CourseCode, a.Content, a.Author, a.PostedAt.Format("Jan 2, 2006")))
	}

	return AnnouncementsResult{Count: len(views), Announcements: views, Formatted: strings.Join(lines, "\n\n")}, nil
}

// GetMaterialsTool lists published course materials.
type GetMaterialsTool struct {
	store *Store
}

// MaterialView carries the resolved course code.
type MaterialView struct {
	Material
	CourseCode string `json:"courseCode"`
}

// MaterialsResult is the get_materials payload.
type MaterialsResult struct {
	Count     int            `json:"count"`
	Materials []MaterialView `json:"materials"`
	Formatted string         `json:"formatted"`
}

func (t *GetMaterialsTool) Name() string { return "get_materials" }
func (t *GetMaterialsTool) Description() string {
	return "Retrieves course materials (slides, documents, practice problems)"
}
func (t *GetMaterialsTool) Category() string { return "lms" }
func (t *GetMaterialsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode": {Type: "string", Description: "Filter by course code"},
			"type": {
				Type: "string",
				Enum: []string{"all", "slides", "document", "practice", "video"},
				Description: "Filter by material type",
			},
		},
	}
}

func (t *GetMaterialsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	t.store.mu.RLock()
	materials := make([]Material, len(t.store.materials))
	copy(materials, t.store.materials)
	t.store.mu.RUnlock()

	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		if course, ok := t.store.courseByCode(code); ok {
			filtered := materials[:0]
			for _, m := range materials {
				if m.CourseID == course.ID {
					filtered = append(filtered, m)
				}
			}
			materials = filtered
		}
	}

	if kind := framework.StringArg(args, "type", ""); kind != "" && kind != "all" {
		filtered := materials[:0]
		for _, m := range materials {
			if m.Type == kind {
				filtered = append(filtered, m)
			}
		}
		materials = filtered
	}

	views := make([]MaterialView, 0, len(materials))
	var lines []string
	for _, m := range materials {
		view := MaterialView{Material: m}
		if course, ok := t.store.courseByID(m.CourseID); ok {
			view.CourseCode = course.Code
		}
		views = append(views, view)
		lines = append(lines, fmt.Sprintf("📄 **%s** (%s)\n   Type: %s | Uploaded: %s",
			m.Title, view.CourseCode, m.Type, m.UploadedAt.Format("Jan 2, 2006")))
	}

	return MaterialsResult{Count: len(views), Materials: views, Formatted: strings.Join(lines, "\n\n")}, nil
}

func daysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func urgencyFor(days int) string {
	switch {
	case days <= 2:
		return "high"
	case days <= 5:
		return "medium"
	default:
		return "low"
	}
}

func urgencyEmoji(urgency string) string {
	switch urgency {
	case "high":
		return "🔴"
	case "medium":
		return "🟡"
	default:
		return "🟢"
	}
}
