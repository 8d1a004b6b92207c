package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/famitree/internal/domain/entities"
)

func TestSummaryService_Summarize(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	g := newTestGraph(
		[]entities.Person{
			{ID: "gp", Name: "Grandpa", Gender: entities.GenderMale, BirthDate: "1920-01-01", DeathDate: "1990-01-01"},
			{ID: "gm", Name: "Grandma", Gender: entities.GenderFemale, BirthDate: "1925-07-01", DeathDate: "1970-01-01"},
			{ID: "f", Name: "Father", Gender: entities.GenderMale, BirthDate: "1950-06-02"},
			{ID: "m", Name: "Mother", Gender: entities.GenderFemale, BirthDate: "1955"},
			{ID: "k", Name: "Kid", Gender: entities.GenderMale, BirthDate: "2020-01-01"},
			{ID: "t", Name: "Teen", BirthDate: "2010-06-01"},
			{ID: "u", Name: "Uncle", Gender: entities.GenderMale, DeathDate: "2000"},
			{ID: "o", Name: "Other family", Gender: entities.GenderFemale},
		},
		spouse("s1", "gp", "gm"),
		parentChild("e1", "gp", "f"),
		parentChild("e2", "gm", "f"),
		parentChild("e3", "gp", "u"),
		spouse("s2", "f", "m"),
		parentChild("e4", "f", "k"),
		parentChild("e5", "f", "t"),
	)
	svc := NewSummaryService(staticSource{g})

	sum := svc.Summarize("", now)
	assert.Equal(t, 8, sum.People)
	assert.Equal(t, 3, sum.Deceased)
	assert.Equal(t, 5, sum.Living)
	assert.Equal(t, 4, sum.Male)
	assert.Equal(t, 3, sum.Female)
	assert.Equal(t, 2, sum.LivingMale)
	assert.Equal(t, 2, sum.LivingFemale)
	assert.Equal(t, 1, sum.MaleDeceased60Plus)
	assert.Equal(t, 5, sum.ParentChildEdges)
	assert.Equal(t, 2, sum.SpouseEdges)
	assert.Equal(t, 4, sum.Roots)
	assert.Equal(t, 3, sum.Generations)

	bands := map[string]int{}
	for _, b := range sum.AgeBands {
		bands[b.Band.Label] = b.Count
	}
	assert.Equal(t, map[string]int{
		"0-5": 1, "6-17": 1, "18-35": 0, "36-50": 1, "51-70": 2, "71+": 1,
	}, bands)

	branch := svc.Summarize("f", now)
	assert.Equal(t, 4, branch.People, "father, mother and two children")
	assert.Equal(t, 2, branch.ParentChildEdges)
	assert.Equal(t, 1, branch.SpouseEdges)
	assert.Equal(t, 1, branch.Roots)
	assert.Equal(t, 2, branch.Generations)

	empty := svc.Summarize("missing", now)
	assert.Zero(t, empty.People)
	assert.Zero(t, empty.Roots)
}

func TestAgeBand_Contains(t *testing.T) {
	assert.True(t, AgeBands[0].Contains(0))
	assert.False(t, AgeBands[0].Contains(6))
	assert.True(t, AgeBands[5].Contains(120))
	assert.False(t, AgeBands[5].Contains(70))
}
