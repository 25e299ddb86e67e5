// Package indexer loads profile records into the corpus store: education
// tokenization, experience-section extraction, and the offline embedding
// pass.
package indexer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

var (
	lawDegrees      = []string{"J.D.", "LL.M.", "LL.B.", "J.D", "LL.M", "LL.B"}
	undergradDegree = []string{"B.A.", "B.S.", "A.B.", "B.A", "B.S", "A.B"}
	gradDegrees     = []string{"M.A.", "M.S.", "MBA", "Ph.D.", "M.A", "M.S", "Ph.D"}
)

var schoolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][^,]*(?:University|College|School|Institute))`),
	regexp.MustCompile(`([A-Z][^,]*(?:Law School|Law))`),
}

var honorsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)magna cum laude`),
	regexp.MustCompile(`(?i)summa cum laude`),
	regexp.MustCompile(`(?i)cum laude`),
	regexp.MustCompile(`(?i)with honors`),
	regexp.MustCompile(`(?i)with distinction`),
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ParseEducation tokenizes a raw education line such as
// "J.D., Yale Law School, 2015, cum laude" into a structured entry.
func ParseEducation(line string) types.Education {
	edu := types.Education{}

	var degrees []string
	degrees = append(degrees, lawDegrees...)
	degrees = append(degrees, undergradDegree...)
	degrees = append(degrees, gradDegrees...)

	cleaned := line
	for _, degree := range degrees {
		if strings.Contains(line, degree) {
			edu.DegreeType = strings.TrimRight(degree, ".")
			for _, law := range lawDegrees {
				if degree == law {
					edu.IsLawDegree = true
					break
				}
			}
			cleaned = strings.ReplaceAll(cleaned, degree+".", "")
			cleaned = strings.ReplaceAll(cleaned, degree, "")
			break
		}
	}

	if m := yearRe.FindString(line); m != "" {
		if year, err := strconv.Atoi(m); err == nil {
			edu.Year = year
		}
		cleaned = strings.ReplaceAll(cleaned, m, "")
	}

	cleaned = strings.Trim(cleaned, ", \t")

	for _, re := range schoolPatterns {
		if m := re.FindStringSubmatch(cleaned); m != nil {
			edu.SchoolName = strings.Join(strings.Fields(strings.Trim(m[1], ", ")), " ")
			break
		}
	}
	if edu.SchoolName == "" {
		// Fall back to the longest comma-separated segment that looks
		// like an institution rather than a subject.
		for _, part := range strings.Split(cleaned, ",") {
			part = strings.TrimSpace(part)
			lower := strings.ToLower(part)
			if len(part) > 5 && lower != "tax" && lower != "economics" && lower != "law" {
				edu.SchoolName = part
				break
			}
		}
	}

	for _, re := range honorsPatterns {
		if m := re.FindString(line); m != "" {
			edu.Honors = m
			break
		}
	}

	return edu
}
