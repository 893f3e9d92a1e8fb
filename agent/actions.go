package agent

// actionsFor maps an intent to its fixed follow-up suggestions.
func actionsFor(intent Intent) []Action {
	switch intent {
	case IntentDeadlines:
		return []Action{
			{Label: "Create Study Plan", Action: "create_study_plan"},
			{Label: "View Calendar", Action: "view_calendar"},
		}
	case IntentGrades:
		return []Action{
			{Label: "See Improvement Tips", Action: "get_tips"},
			{Label: "View Details", Action: "view_grades"},
		}
	case IntentSchedule:
		return []Action{
			{Label: "Add Study Session", Action: "add_session"},
		}
	case IntentStudy:
		return []Action{
			{Label: "Start Study Session", Action: "start_session"},
			{Label: "Create Plan", Action: "create_plan"},
		}
	case IntentWellness:
		return []Action{
			{Label: "Take a Break", Action: "take_break"},
		}
	case IntentCourses:
		return []Action{
			{Label: "View Course Details", Action: "view_courses"},
		}
	default:
		return []Action{
			{Label: "Show Deadlines", Action: "show_deadlines"},
			{Label: "View Schedule", Action: "view_schedule"},
		}
	}
}
