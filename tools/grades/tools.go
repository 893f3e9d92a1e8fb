package grades

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pilotedu/studypilot/framework"
)

// Tools returns the grade analyzer tool set backed by the given store.
func Tools(store *Store) []framework.Tool {
	return []framework.Tool{
		&GetSummaryTool{store: store},
		&GetCourseGradesTool{store: store},
		&PredictFinalGradeTool{store: store},
		&GetImprovementTipsTool{store: store},
	}
}

// GetSummaryTool summarizes standing across courses.
type GetSummaryTool struct {
	store *Store
}

// CourseSummary is one course's standing within the summary.
type CourseSummary struct {
	CourseID        string  `json:"courseId"`
	CourseCode      string  `json:"courseCode"`
	GradeCount      int     `json:"gradeCount"`
	CurrentAverage  string  `json:"currentAverage"`
	LetterGrade     string  `json:"letterGrade"`
	GPA             float64 `json:"gpa"`
	Trend           string  `json:"trend"`
	CompletedWeight float64 `json:"completedWeight"`
}

// SummaryResult is the get_grade_summary payload.
type SummaryResult struct {
	Courses    []CourseSummary `json:"courses"`
	OverallGPA string          `json:"overallGPA"`
	Formatted  string          `json:"formatted"`
}

func (t *GetSummaryTool) Name() string { return "get_grade_summary" }
func (t *GetSummaryTool) Description() string {
	return "Retrieves overall grade summary for all courses or a specific course"
}
func (t *GetSummaryTool) Category() string { return "grades" }
func (t *GetSummaryTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode":    {Type: "string", Description: "Filter by course code"},
			"includeTrends": {Type: "boolean", Description: "Include grade trend analysis"},
		},
	}
}

func (t *GetSummaryTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	courseIDs := t.store.CourseIDs()
	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		courseIDs = []string{strings.ToLower(code)}
	}

	var summaries []CourseSummary
	for _, courseID := range courseIDs {
		grades := t.store.Grades(courseID)
		if grades == nil {
			continue
		}

		average := weightedAverage(grades)
		band := percentageToLetter(average)

		var completedWeight float64
		for _, g := range grades {
			completedWeight += g.Weight
		}

		summaries = append(summaries, CourseSummary{
			CourseID:        courseID,
			CourseCode:      strings.ToUpper(courseID),
			GradeCount:      len(grades),
			CurrentAverage:  fmt.Sprintf("%.1f", average),
			LetterGrade:     band.Letter,
			GPA:             band.GPA,
			Trend:           trendFor(grades),
			CompletedWeight: completedWeight,
		})
	}

	overallGPA := "0"
	if len(summaries) > 0 {
		var sum float64
		for _, s := range summaries {
			sum += s.GPA
		}
		overallGPA = fmt.Sprintf("%.2f", sum/float64(len(summaries)))
	}

	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		lines = append(lines, fmt.Sprintf(`**%s**
   Current: %s%% (%s)
   GPA: %g | Trend: %s %s
   Progress: %.0f%% of grade earned`,
			s.CourseCode, s.CurrentAverage, s.LetterGrade,
			s.GPA, trendEmoji(s.Trend), s.Trend, s.CompletedWeight*100))
	}

	return SummaryResult{
		Courses:    summaries,
		OverallGPA: overallGPA,
		Formatted: "📊 **Grade Summary**\n\n" + strings.Join(lines, "\n\n") +
			fmt.Sprintf("\n\n📚 **Overall GPA: %s**", overallGPA),
	}, nil
}

// trendFor compares the last three recorded scores against the rest. Shifts
// inside a five point dead zone count as stable.
func trendFor(grades []Grade) string {
	if len(grades) < 3 {
		return "stable"
	}
	recent := grades[len(grades)-3:]
	older := grades[:len(grades)-3]
	if len(older) == 0 {
		return "stable"
	}

	var recentSum, olderSum float64
	for _, g := range recent {
		recentSum += g.Score / g.MaxScore
	}
	for _, g := range older {
		olderSum += g.Score / g.MaxScore
	}
	recentAvg := recentSum / float64(len(recent))
	olderAvg := olderSum / float64(len(older))

	switch {
	case recentAvg > olderAvg+0.05:
		return "improving"
	case recentAvg < olderAvg-0.05:
		return "declining"
	default:
		return "stable"
	}
}

func trendEmoji(trend string) string {
	switch trend {
	case "improving":
		return "📈"
	case "declining":
		return "📉"
	default:
		return "➡️"
	}
}

// GetCourseGradesTool lists the graded items of one course.
type GetCourseGradesTool struct {
	store *Store
}

// CourseGradesResult is the get_course_grades payload.
type CourseGradesResult struct {
	CourseCode string  `json:"courseCode"`
	Count      int     `json:"count"`
	Grades     []Grade `json:"grades"`
	Formatted  string  `json:"formatted"`
}

func (t *GetCourseGradesTool) Name() string { return "get_course_grades" }
func (t *GetCourseGradesTool) Description() string {
	return "Retrieves all graded items for a specific course"
}
func (t *GetCourseGradesTool) Category() string { return "grades" }
func (t *GetCourseGradesTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode": {Type: "string", Description: "Course code"},
			"type": {
				Type: "string",
				Enum: []string{"all", "homework", "quiz", "exam", "lab", "essay", "project"},
				Description: "Filter by grade type",
			},
		},
		Required: []string{"courseCode"},
	}
}

func (t *GetCourseGradesTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	code := framework.StringArg(args, "courseCode", "")
	grades := t.store.Grades(code)

	if kind := framework.StringArg(args, "type", ""); kind != "" && kind != "all" {
		filtered := grades[:0]
		for _, g := range grades {
			if g.Type == kind {
				filtered = append(filtered, g)
			}
		}
		grades = filtered
	}

	sort.SliceStable(grades, func(i, j int) bool {
		return grades[i].Date < grades[j].Date
	})

	upper := strings.ToUpper(code)
	formatted := fmt.Sprintf("No grades found for %s", upper)
	if len(grades) > 0 {
		lines := make([]string, 0, len(grades))
		for _, g := range grades {
			date, _ := time.Parse("2006-01-02", g.Date)
			lines = append(lines, fmt.Sprintf(`• **%s** (%s)
   Score: %g/%g (%.1f%%)
   Weight: %.0f%% | Date: %s`,
				g.Title, g.Type, g.Score, g.MaxScore,
				g.Score/g.MaxScore*100, g.Weight*100, date.Format("Jan 2, 2006")))
		}
		formatted = fmt.Sprintf("📝 **%s Grades**\n\n%s", upper, strings.Join(lines, "\n\n"))
	}

	return CourseGradesResult{
		CourseCode: upper,
		Count:      len(grades),
		Grades:     grades,
		Formatted:  formatted,
	}, nil
}

// PredictFinalGradeTool projects the final grade from the grades recorded so
// far and, given a target letter, what the remaining work must average.
type PredictFinalGradeTool struct {
	store *Store
}

// Standing is a percentage with its letter band.
type Standing struct {
	Average         string `json:"average"`
	Letter          string `json:"letter"`
	CompletedWeight string `json:"completedWeight,omitempty"`
}

// TargetOutlook says what it takes to still reach the requested grade.
type TargetOutlook struct {
	Grade               string `json:"grade"`
	RequiredOnRemaining string `json:"requiredOnRemaining"`
	Achievable          bool   `json:"achievable"`
}

// PredictionResult is the predict_final_grade payload.
type PredictionResult struct {
	CourseCode      string             `json:"courseCode"`
	Current         Standing           `json:"current"`
	Predicted       Standing           `json:"predicted"`
	Target          *TargetOutlook     `json:"target"`
	RemainingWeight string             `json:"remainingWeight"`
	CategoryWeights map[string]float64 `json:"categoryWeights,omitempty"`
	Formatted       string             `json:"formatted"`
}

func (t *PredictFinalGradeTool) Name() string { return "predict_final_grade" }
func (t *PredictFinalGradeTool) Description() string {
	return "Predicts final grade based on current performance and remaining assignments"
}
func (t *PredictFinalGradeTool) Category() string { return "grades" }
func (t *PredictFinalGradeTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode":  {Type: "string", Description: "Course code"},
			"targetGrade": {Type: "string", Description: `Target letter grade (e.g., "A", "B+")`},
		},
		Required: []string{"courseCode"},
	}
}

func (t *PredictFinalGradeTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	code := framework.StringArg(args, "courseCode", "")
	grades := t.store.Grades(code)

	var currentWeightedSum, completedWeight float64
	for _, g := range grades {
		currentWeightedSum += g.Score / g.MaxScore * 100 * g.Weight
		completedWeight += g.Weight
	}
	remainingWeight := 1 - completedWeight

	currentAverage := 0.0
	if completedWeight > 0 {
		currentAverage = currentWeightedSum / completedWeight
	}
	currentBand := percentageToLetter(currentAverage)
	predictedBand := percentageToLetter(currentAverage)

	var target *TargetOutlook
	targetLine := ""
	if targetGrade := framework.StringArg(args, "targetGrade", ""); targetGrade != "" {
		if band, ok := scaleBand(targetGrade); ok && remainingWeight > 0 {
			required := (band.Min - currentWeightedSum) / remainingWeight
			target = &TargetOutlook{
				Grade:               targetGrade,
				RequiredOnRemaining: fmt.Sprintf("%.1f", required),
				Achievable:          required <= 100,
			}
			if target.Achievable {
				targetLine = fmt.Sprintf("\n\n**To achieve %s:**\n✅ You need %.1f%% on remaining work", targetGrade, required)
			} else {
				targetLine = fmt.Sprintf("\n\n**To achieve %s:**\n❌ Target grade may not be achievable with current scores", targetGrade)
			}
		} else if ok {
			target = &TargetOutlook{Grade: targetGrade, RequiredOnRemaining: "0.0", Achievable: false}
			targetLine = fmt.Sprintf("\n\n**To achieve %s:**\n❌ Target grade may not be achievable with current scores", targetGrade)
		}
	}

	weights := t.store.Weights(code)
	weightsBlock := ""
	if len(weights) > 0 {
		categories := make([]string, 0, len(weights))
		for category := range weights {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		lines := make([]string, 0, len(categories))
		for _, category := range categories {
			lines = append(lines, fmt.Sprintf("• %s: %.0f%%", category, weights[category]*100))
		}
		weightsBlock = "\n\n**Category Weights:**\n" + strings.Join(lines, "\n")
	}

	upper := strings.ToUpper(code)
	formatted := fmt.Sprintf(`🎯 **Grade Prediction: %s**

**Current Status:**
📊 Average: %.1f%% (%s)
✅ Weight completed: %.0f%%
📝 Remaining: %.0f%%

**Prediction (if current trend continues):**
📈 Predicted Final: %.1f%% (%s)%s%s`,
		upper, currentAverage, currentBand.Letter,
		completedWeight*100, remainingWeight*100,
		currentAverage, predictedBand.Letter, weightsBlock, targetLine)

	return PredictionResult{
		CourseCode:      upper,
		Current:         Standing{Average: fmt.Sprintf("%.1f", currentAverage), Letter: currentBand.Letter, CompletedWeight: fmt.Sprintf("%.0f", completedWeight*100)},
		Predicted:       Standing{Average: fmt.Sprintf("%.1f", currentAverage), Letter: predictedBand.Letter},
		Target:          target,
		RemainingWeight: fmt.Sprintf("%.0f", remainingWeight*100),
		CategoryWeights: weights,
		Formatted:       formatted,
	}, nil
}

// GetImprovementTipsTool flags weak grade categories with a concrete tip.
type GetImprovementTipsTool struct {
	store *Store
}

// Tip is one recommendation for a weak category.
type Tip struct {
	CourseCode     string `json:"courseCode"`
	Type           string `json:"type"`
	CurrentAvg     string `json:"currentAvg"`
	Recommendation string `json:"recommendation"`
	Priority       string `json:"priority"`
}

// TipsResult is the get_improvement_tips payload.
type TipsResult struct {
	Tips      []Tip  `json:"tips"`
	Formatted string `json:"formatted"`
}

func (t *GetImprovementTipsTool) Name() string { return "get_improvement_tips" }
func (t *GetImprovementTipsTool) Description() string {
	return "Provides personalized recommendations to improve grades"
}
func (t *GetImprovementTipsTool) Category() string { return "grades" }
func (t *GetImprovementTipsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode": {Type: "string", Description: "Course to get tips for (optional)"},
		},
	}
}

func (t *GetImprovementTipsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	courseIDs := t.store.CourseIDs()
	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		courseIDs = []string{strings.ToLower(code)}
	}

	var tips []Tip
	for _, courseID := range courseIDs {
		grades := t.store.Grades(courseID)
		if len(grades) == 0 {
			continue
		}

		byType := make(map[string][]Grade)
		var typeOrder []string
		for _, g := range grades {
			if _, seen := byType[g.Type]; !seen {
				typeOrder = append(typeOrder, g.Type)
			}
			byType[g.Type] = append(byType[g.Type], g)
		}

		for _, kind := range typeOrder {
			typeGrades := byType[kind]
			var sum float64
			for _, g := range typeGrades {
				sum += g.Score / g.MaxScore
			}
			avg := sum / float64(len(typeGrades))

			if avg < 0.80 {
				priority := "medium"
				if avg < 0.70 {
					priority = "high"
				}
				tips = append(tips, Tip{
					CourseCode:     strings.ToUpper(courseID),
					Type:           kind,
					CurrentAvg:     fmt.Sprintf("%.1f", avg*100),
					Recommendation: t.recommend(kind),
					Priority:       priority,
				})
			}
		}
	}

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority == "high" && tips[j].Priority != "high"
	})

	formatted := "✨ Great job! Your grades are looking strong across all areas. Keep up the excellent work!"
	if len(tips) > 0 {
		lines := make([]string, 0, len(tips))
		for _, tip := range tips {
			marker := "🟡"
			if tip.Priority == "high" {
				marker = "🔴"
			}
			lines = append(lines, fmt.Sprintf("%s **%s - %s** (Current: %s%%)\n   📝 %s",
				marker, tip.CourseCode, tip.Type, tip.CurrentAvg, tip.Recommendation))
		}
		formatted = "💡 **Improvement Recommendations**\n\n" + strings.Join(lines, "\n\n")
	}

	return TipsResult{Tips: tips, Formatted: formatted}, nil
}

var recommendations = map[string][]string{
	"homework": {
		"Start assignments earlier to have time for review",
		"Visit office hours for help with difficult problems",
		"Form a study group for homework collaboration",
	},
	"quiz": {
		"Review material more frequently - try spaced repetition",
		"Practice with flashcards before quizzes",
		"Identify patterns in quiz questions from past tests",
	},
	"lab": {
		"Prepare for labs by reviewing procedures beforehand",
		"Ask TAs for clarification during lab sessions",
		"Complete pre-lab assignments thoroughly",
	},
	"essay": {
		"Visit the writing center for feedback before submission",
		"Create detailed outlines before writing",
		"Give yourself time for multiple revision passes",
	},
	"exam": {
		"Start studying at least one week before exams",
		"Practice with old exams if available",
		"Focus on understanding concepts, not just memorization",
	},
}

func (t *GetImprovementTipsTool) recommend(kind string) string {
	pool, ok := recommendations[kind]
	if !ok {
		pool = recommendations["homework"]
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return pool[t.store.rng.Intn(len(pool))]
}
