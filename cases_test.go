package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCase(t *testing.T) {
	c, ok := findCase("case_pregnant_abdominal_pain")
	require.True(t, ok)
	assert.Equal(t, "Angie Smith", c.Name)
	assert.Equal(t, 2, c.ESILevel)

	_, ok = findCase("case_does_not_exist")
	assert.False(t, ok)
}

func TestSimulationPrompt(t *testing.T) {
	c, ok := findCase("case_leg_erythema_pain")
	require.True(t, ok)

	prompt := c.SimulationPrompt()
	assert.Contains(t, prompt, "Your name is Tyler James")
	assert.Contains(t, prompt, "ESI Level 2")
	assert.Contains(t, prompt, c.ChiefComplaint)
	assert.Contains(t, prompt, "'crepitus'")
	assert.Contains(t, prompt, scoringOpenTag)
}

func TestTruncateComplaint(t *testing.T) {
	long := strings.Repeat("a", complaintDisplayLimit+5)
	assert.Equal(t, strings.Repeat("a", complaintDisplayLimit)+"...", truncateComplaint(long))

	short := "chest pain"
	assert.Equal(t, short, truncateComplaint(short))

	exact := strings.Repeat("b", complaintDisplayLimit)
	assert.Equal(t, exact, truncateComplaint(exact))
}

func TestCaseCatalogComplete(t *testing.T) {
	require.Len(t, patientCases, 3)
	for _, c := range patientCases {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.ChiefComplaint)
		assert.NotEmpty(t, c.InitialLine)
		assert.NotEmpty(t, c.HotClues)
		assert.NotEmpty(t, c.ScoringRule)
		assert.Contains(t, []int{1, 2, 3, 4, 5}, c.ESILevel)
	}
}
