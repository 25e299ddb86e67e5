package indexer

import (
	"regexp"
	"strings"
)

// Sections that end the experience block.
var stopSections = []string{
	"Education", "Languages", "Qualifications",
	"Clerkship", "Back to", "Download", "Print", "Offices",
	"News", "Contact", "Careers", "Alumni", "Connect", "Archive",
}

// Navigation lines that mean an "Experience" heading is site chrome, not
// the profile section.
var navIndicators = []string{
	"Skip to main content", "Top of page",
	"Lawyers", "Capabilities", "Insights", "Client Updates",
	"Webinars & CLE Programs", "Resource Centers", "Offices",
	"About Us", "Overview", "Business Services Leadership",
}

var skipLines = []string{
	"view more experience", "see more experience", "download", "print",
	"back to", "address card", "skip to", "see all results",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractExperienceText pulls the experience section out of a profile's
// plain text. Returns "" when no substantial experience block is found.
func ExtractExperienceText(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	inExperience := false
	var collected []string

	for i, line := range lines {
		if line == "Experience" || (strings.HasPrefix(line, "Experience") && len(line) < 20) {
			if !isNavHeading(lines, i) {
				inExperience = true
				continue
			}
		}

		if !inExperience {
			continue
		}

		if stopsExperience(line) {
			break
		}
		if shouldSkip(line) {
			continue
		}
		collected = append(collected, line)
	}

	if len(collected) == 0 {
		return ""
	}

	text := whitespaceRe.ReplaceAllString(strings.Join(collected, " "), " ")
	text = strings.TrimSpace(text)
	if len(text) <= 50 {
		return ""
	}
	return text
}

func isNavHeading(lines []string, i int) bool {
	if i+1 < len(lines) {
		for _, nav := range navIndicators {
			if strings.Contains(lines[i+1], nav) {
				return true
			}
		}
	}
	start := i - 5
	if start < 0 {
		start = 0
	}
	for _, prev := range lines[start:i] {
		for _, nav := range navIndicators {
			if strings.Contains(prev, nav) {
				return true
			}
		}
	}
	return false
}

func stopsExperience(line string) bool {
	// "Prior experience" belongs to the experience section.
	if line == "Prior experience" {
		return false
	}
	for _, section := range stopSections {
		if strings.Contains(line, section) {
			return true
		}
	}
	return false
}

func shouldSkip(line string) bool {
	lower := strings.ToLower(line)
	for _, skip := range skipLines {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}
