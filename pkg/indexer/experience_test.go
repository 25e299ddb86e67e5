package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractExperienceText(t *testing.T) {
	content := `
John Smith
Partner

Experience
Represented Netflix in a series of content licensing disputes.
Advised Goldman Sachs on regulatory investigations.
Prior experience
Clerked for the Second Circuit.

Education
J.D., Yale Law School
`
	got := ExtractExperienceText(content)

	assert.Contains(t, got, "Represented Netflix")
	assert.Contains(t, got, "Goldman Sachs")
	assert.Contains(t, got, "Clerked for the Second Circuit")
	assert.NotContains(t, got, "Yale Law School", "education section must not leak in")
}

func TestExtractExperienceStopsAtSectionBoundary(t *testing.T) {
	content := `
Experience
Advised on cross-border mergers and acquisitions for two decades.
Languages
Spanish
`
	got := ExtractExperienceText(content)

	assert.Contains(t, got, "cross-border mergers")
	assert.NotContains(t, got, "Spanish")
}

func TestExtractExperienceIgnoresNavigationHeading(t *testing.T) {
	content := `
Skip to main content
Lawyers
Capabilities
Experience
Insights
About Us
`
	assert.Empty(t, ExtractExperienceText(content))
}

func TestExtractExperienceSkipsChromeLines(t *testing.T) {
	content := `
Experience
Handled antitrust litigation for technology companies over many years.
View more experience
`
	got := ExtractExperienceText(content)

	assert.Contains(t, got, "antitrust litigation")
	assert.NotContains(t, strings.ToLower(got), "view more")
}

func TestExtractExperienceRequiresSubstance(t *testing.T) {
	assert.Empty(t, ExtractExperienceText("Experience\nShort."))
	assert.Empty(t, ExtractExperienceText("No experience heading at all in this text."))
	assert.Empty(t, ExtractExperienceText(""))
}

func TestExtractExperienceCollapsesWhitespace(t *testing.T) {
	content := "Experience\nAdvised   on    complex\tsecurities offerings for issuers and underwriters."
	got := ExtractExperienceText(content)

	assert.NotContains(t, got, "  ")
	assert.Contains(t, got, "Advised on complex securities offerings")
}
