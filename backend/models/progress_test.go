package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddCompletedKeepsSetSorted(t *testing.T) {
	var p CourseProgress
	p.CurrentModule = 1

	p.AddCompleted(3)
	p.AddCompleted(1)
	p.AddCompleted(3)

	assert.Equal(t, []int{1, 3}, p.CompletedList())
	assert.True(t, p.HasCompleted(1))
	assert.True(t, p.HasCompleted(3))
	assert.False(t, p.HasCompleted(2))
}

func TestAddCompletedAdvancesButNeverRewinds(t *testing.T) {
	var p CourseProgress
	p.CurrentModule = 1

	p.AddCompleted(4)
	assert.Equal(t, 5, p.CurrentModule)

	p.AddCompleted(1)
	assert.Equal(t, 5, p.CurrentModule)
}

func TestTopicListRoundTrip(t *testing.T) {
	var c Course
	c.SetTopics([]string{"One", "Two"})
	assert.Equal(t, []string{"One", "Two"}, c.TopicList())

	var empty Course
	assert.Empty(t, empty.TopicList())
}

func TestOptionListRoundTrip(t *testing.T) {
	var q QuizQuestion
	q.SetOptions([]string{"a", "b", "c", "d"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, q.OptionList())
}
