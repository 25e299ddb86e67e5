package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEducationLawDegree(t *testing.T) {
	edu := ParseEducation("J.D., Yale Law School, 2015, cum laude")

	assert.Equal(t, "J.D", edu.DegreeType)
	assert.True(t, edu.IsLawDegree)
	assert.Equal(t, "Yale Law School", edu.SchoolName)
	assert.Equal(t, 2015, edu.Year)
	assert.Equal(t, "cum laude", edu.Honors)
}

func TestParseEducationUndergrad(t *testing.T) {
	edu := ParseEducation("B.A., Columbia University, 2010, magna cum laude")

	assert.Equal(t, "B.A", edu.DegreeType)
	assert.False(t, edu.IsLawDegree)
	assert.Equal(t, "Columbia University", edu.SchoolName)
	assert.Equal(t, 2010, edu.Year)
	assert.Equal(t, "magna cum laude", edu.Honors)
}

func TestParseEducationLLM(t *testing.T) {
	edu := ParseEducation("LL.M., New York University School of Law, 2018")

	assert.True(t, edu.IsLawDegree)
	assert.Equal(t, 2018, edu.Year)
	assert.NotEmpty(t, edu.SchoolName)
}

func TestParseEducationNoYear(t *testing.T) {
	edu := ParseEducation("J.D., Harvard Law School")

	assert.True(t, edu.IsLawDegree)
	assert.Zero(t, edu.Year)
	assert.Equal(t, "Harvard Law School", edu.SchoolName)
}

func TestParseEducationNoDegree(t *testing.T) {
	edu := ParseEducation("Stanford University, 2012")

	assert.Empty(t, edu.DegreeType)
	assert.False(t, edu.IsLawDegree)
	assert.Equal(t, "Stanford University", edu.SchoolName)
	assert.Equal(t, 2012, edu.Year)
}

func TestParseEducationSubjectSegmentsIgnored(t *testing.T) {
	// "Tax" and "Law" segments must not win the school fallback.
	edu := ParseEducation("LL.M., Tax, Georgetown University, 2016")

	assert.Equal(t, "Georgetown University", edu.SchoolName)
}

func TestParseEducationInstitute(t *testing.T) {
	edu := ParseEducation("B.S., Massachusetts Institute of Technology, 2008")

	assert.Equal(t, "B.S", edu.DegreeType)
	assert.NotEmpty(t, edu.SchoolName)
}

func TestParseEducationEmptyLine(t *testing.T) {
	edu := ParseEducation("")

	assert.Empty(t, edu.DegreeType)
	assert.Empty(t, edu.SchoolName)
	assert.Zero(t, edu.Year)
}
