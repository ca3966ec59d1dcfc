package utils

import (
	"fmt"
	"os"
)

const defaultBaseURL = "http://localhost:8080"

// SurveyLink formats the public take-link for a survey. Pure string
// formatting; the survey is not checked for existence.
func SurveyLink(surveyID uint) string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return fmt.Sprintf("%s/api/surveys/%d/take", base, surveyID)
}
