package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackQuestionsCount(t *testing.T) {
	for _, n := range []int{1, 5, 10, 12} {
		questions := FallbackQuestions("Pointers", n)
		assert.Len(t, questions, n)
	}
}

func TestFallbackQuestionsShape(t *testing.T) {
	questions := FallbackQuestions("Pointers", 7)
	for _, q := range questions {
		assert.Contains(t, q.Question, "Pointers")
		assert.Len(t, q.Options, 4)
		assert.Equal(t, 0, q.CorrectAnswer)
		assert.NotEmpty(t, q.Explanation)
	}
}

func TestFallbackModuleContent(t *testing.T) {
	content := FallbackModuleContent("Goroutines", "intermediate")
	assert.Contains(t, content, "Goroutines")
	assert.Contains(t, content, "intermediate")
	assert.Greater(t, len(content), 200)
}

func TestFallbackRoadmaps(t *testing.T) {
	roadmaps := FallbackRoadmaps([]string{"HTTP", "Routing", "Middleware", "Databases"})
	assert.Len(t, roadmaps, 1)

	roadmap := roadmaps[0]
	assert.NotEmpty(t, roadmap.Title)
	assert.Len(t, roadmap.Phases, 3)
	for _, phase := range roadmap.Phases {
		assert.NotEmpty(t, phase.Name)
		assert.NotEmpty(t, phase.Duration)
	}

	// Every source topic lands in some phase
	var all []string
	for _, phase := range roadmap.Phases {
		all = append(all, phase.Topics...)
	}
	joined := strings.Join(all, "|")
	for _, topic := range []string{"HTTP", "Routing", "Middleware", "Databases"} {
		assert.Contains(t, joined, topic)
	}
}
