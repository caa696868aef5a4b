package pdftemplate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// SeniorityLabel derives the seniority line from total months of work
// experience: under 3 months Intern, under 2 years Junior, under 5 years
// Mid-level, Senior beyond that.
func SeniorityLabel(experience []cvstruct.ExperienceItem, now time.Time) string {
	months := totalExperienceMonths(experience, now)
	switch {
	case months < 3:
		return "Intern"
	case months < 24:
		return "Junior"
	case months < 60:
		return "Mid-level"
	default:
		return "Senior"
	}
}

func totalExperienceMonths(experience []cvstruct.ExperienceItem, now time.Time) int {
	total := 0
	for _, item := range experience {
		from, okFrom := parsePeriodDate(item.From, now)
		if !okFrom {
			continue
		}
		to, okTo := parsePeriodDate(item.To, now)
		if !okTo {
			to = now
		}
		if to.Before(from) {
			continue
		}
		months := int(to.Sub(from).Hours() / 24 / 30)
		total += months
	}
	return total
}

// parsePeriodDate understands the loose date formats CVs actually carry:
// "2021", "2021-03", "03/2021", "Mar 2021", "present"
func parsePeriodDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "present" || raw == "now" || raw == "current" || raw == "today" {
		return now, raw != ""
	}

	yearMatch := yearPattern.FindString(raw)
	if yearMatch == "" {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(yearMatch)

	month := time.January
	for name, m := range monthNames {
		if strings.Contains(raw, name) {
			month = m
			break
		}
	}
	if month == time.January {
		// numeric month in "2021-03" or "03/2021"
		for _, sep := range []string{"-", "/", "."} {
			parts := strings.Split(raw, sep)
			if len(parts) != 2 {
				continue
			}
			for _, part := range parts {
				if part == yearMatch {
					continue
				}
				if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n >= 1 && n <= 12 {
					month = time.Month(n)
				}
			}
		}
	}

	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}
