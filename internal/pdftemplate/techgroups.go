package pdftemplate

import (
	"strings"
)

// TechGroup is one fixed category of technical skills
type TechGroup struct {
	Name   string
	Skills []string
}

// techCategories is the fixed category priority. "Other" collects
// everything unmatched and always sorts last.
var techCategories = []struct {
	name     string
	keywords []string
}{
	{"Backend Development", []string{
		"go", "golang", "java", "kotlin", "python", "django", "flask", "fastapi",
		"node", "express", "nest", "spring", ".net", "c#", "php", "laravel",
		"ruby", "rails", "rust", "c++", "api", "rest", "grpc", "graphql", "backend",
	}},
	{"Frontend & UI", []string{
		"react", "angular", "vue", "svelte", "next", "nuxt", "javascript",
		"typescript", "html", "css", "sass", "tailwind", "bootstrap",
		"frontend", "ui", "ux", "figma",
	}},
	{"Database & Data", []string{
		"sql", "postgres", "postgresql", "mysql", "mariadb", "sqlite", "oracle",
		"mongo", "mongodb", "redis", "cassandra", "elasticsearch", "kafka",
		"rabbitmq", "spark", "etl", "data", "warehouse", "bigquery",
	}},
	{"DevOps & Cloud", []string{
		"docker", "kubernetes", "k8s", "aws", "azure", "gcp", "terraform",
		"ansible", "jenkins", "gitlab", "github actions", "ci/cd", "ci",
		"linux", "bash", "cloud", "devops", "helm", "prometheus", "grafana",
	}},
	{"Architecture & Practices", []string{
		"architecture", "microservice", "microservices", "ddd", "tdd", "solid",
		"design pattern", "design patterns", "clean code", "agile", "scrum",
		"kanban", "event-driven", "event sourcing", "cqrs",
	}},
}

const otherCategory = "Other"

// GroupTechSkills buckets flat skills into the fixed categories by keyword
// matching. Category order follows the fixed priority; skills keep their
// first-seen order within a category.
func GroupTechSkills(skills []string) []TechGroup {
	buckets := make(map[string][]string)
	seen := make(map[string]bool)

	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true

		category := otherCategory
	match:
		for _, cat := range techCategories {
			for _, keyword := range cat.keywords {
				if matchesKeyword(key, keyword) {
					category = cat.name
					break match
				}
			}
		}
		buckets[category] = append(buckets[category], skill)
	}

	var groups []TechGroup
	for _, cat := range techCategories {
		if items := buckets[cat.name]; len(items) > 0 {
			groups = append(groups, TechGroup{Name: cat.name, Skills: items})
		}
	}
	if items := buckets[otherCategory]; len(items) > 0 {
		groups = append(groups, TechGroup{Name: otherCategory, Skills: items})
	}
	return groups
}

// matchesKeyword matches whole tokens so "go" does not swallow "mongodb"
func matchesKeyword(skill, keyword string) bool {
	if skill == keyword {
		return true
	}
	for _, token := range strings.FieldsFunc(skill, func(r rune) bool {
		return r == ' ' || r == '/' || r == ',' || r == '(' || r == ')'
	}) {
		if token == keyword {
			return true
		}
	}
	return false
}

// renderTechLine serializes the grouped skills, re-capping when the line
// overflows: first 6 categories x 5 skills, then 4x4 past 400 chars, then
// 5x4 past 300. The two thresholds apply in that fixed order, once.
func renderTechLine(groups []TechGroup) string {
	line := serializeGroups(capGroups(groups, 6, 5))
	if len(line) > techRecapFirst {
		return serializeGroups(capGroups(groups, 4, 4))
	}
	if len(line) > techRecapSecond {
		return serializeGroups(capGroups(groups, 5, 4))
	}
	return line
}

func capGroups(groups []TechGroup, maxGroups, maxSkills int) []TechGroup {
	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}
	capped := make([]TechGroup, 0, len(groups))
	for _, group := range groups {
		skills := group.Skills
		if len(skills) > maxSkills {
			skills = skills[:maxSkills]
		}
		capped = append(capped, TechGroup{Name: group.Name, Skills: skills})
	}
	return capped
}

func serializeGroups(groups []TechGroup) string {
	parts := make([]string, 0, len(groups))
	for _, group := range groups {
		parts = append(parts, group.Name+": "+strings.Join(group.Skills, ", "))
	}
	return strings.Join(parts, " | ")
}
