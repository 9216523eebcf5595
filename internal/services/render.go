package services

import (
	"strconv"
	"strings"
)

// TemplateVars carries the enumerated placeholder values a schedule template
// may reference. Nil pointer and empty string fields are "unknown": their
// tokens are left untouched rather than rendered as garbage, so a missing
// linked entity can never crash or corrupt a message.
type TemplateVars struct {
	DaysRemaining      *int
	ProgressPercentage *int
	StreakDays         *int
	GoalTitle          string
	PathwayTitle       string
}

// RenderTemplate substitutes the known placeholder tokens in a schedule
// template. Only these tokens are recognized:
//
//	{{days_remaining}} {{progress_percentage}} {{streak_days}}
//	{{goal_title}} {{pathway_title}}
func RenderTemplate(template string, vars TemplateVars) string {
	out := template
	if vars.DaysRemaining != nil {
		out = strings.ReplaceAll(out, "{{days_remaining}}", strconv.Itoa(*vars.DaysRemaining))
	}
	if vars.ProgressPercentage != nil {
		out = strings.ReplaceAll(out, "{{progress_percentage}}", strconv.Itoa(*vars.ProgressPercentage))
	}
	if vars.StreakDays != nil {
		out = strings.ReplaceAll(out, "{{streak_days}}", strconv.Itoa(*vars.StreakDays))
	}
	if vars.GoalTitle != "" {
		out = strings.ReplaceAll(out, "{{goal_title}}", vars.GoalTitle)
	}
	if vars.PathwayTitle != "" {
		out = strings.ReplaceAll(out, "{{pathway_title}}", vars.PathwayTitle)
	}
	return out
}
