package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"qizz/backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CourseProgress{},
		&models.QuizAttempt{},
		&models.CompletedCourse{},
	))
	return db
}

func question(correct int) models.QuizQuestion {
	q := models.QuizQuestion{Question: "Q?", CorrectAnswer: correct, Explanation: "E"}
	q.SetOptions([]string{"a", "b", "c", "d"})
	return q
}

func TestGrade(t *testing.T) {
	questions := []models.QuizQuestion{
		question(0), question(1), question(2), question(3), question(0),
	}

	tests := []struct {
		name       string
		answers    []int
		wantScore  int
		wantPassed bool
	}{
		{"all correct", []int{0, 1, 2, 3, 0}, 100, true},
		{"all wrong", []int{1, 0, 0, 0, 1}, 0, false},
		{"four of five", []int{0, 1, 2, 3, 1}, 80, true},
		{"three of five", []int{0, 1, 2, 0, 1}, 60, false},
		{"missing answers count as wrong", []int{0, 1}, 40, false},
		{"no answers", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Grade(questions, tt.answers, 70)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Len(t, result.Results, len(questions))
		})
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	result := Grade(nil, nil, 70)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.TotalQuestions)
}

func TestCompleteModuleAdvancesCurrent(t *testing.T) {
	svc := NewProgressService(newTestDB(t))

	progress, err := svc.CompleteModule(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.CurrentModule)
	assert.Equal(t, []int{1}, progress.CompletedList())

	progress, err = svc.CompleteModule(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.CurrentModule)
	assert.Equal(t, []int{1, 2}, progress.CompletedList())
}

func TestCompleteModuleIdempotent(t *testing.T) {
	svc := NewProgressService(newTestDB(t))

	first, err := svc.CompleteModule(1, 1, 1)
	require.NoError(t, err)

	second, err := svc.CompleteModule(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, first.CurrentModule, second.CurrentModule)
	assert.Equal(t, first.CompletedList(), second.CompletedList())
}

func TestCompleteModuleCurrentNeverRegresses(t *testing.T) {
	svc := NewProgressService(newTestDB(t))

	progress, err := svc.CompleteModule(1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, progress.CurrentModule)

	// Completing an earlier module keeps the furthest position
	progress, err = svc.CompleteModule(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, progress.CurrentModule)
	assert.Equal(t, []int{1, 3}, progress.CompletedList())
}

func TestRecordAttemptAccumulates(t *testing.T) {
	svc := NewProgressService(newTestDB(t))

	attempt, err := svc.RecordAttempt(1, 1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.Attempts)
	assert.False(t, attempt.Passed)

	attempt, err = svc.RecordAttempt(1, 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 2, attempt.Attempts)
	assert.True(t, attempt.Passed)
}

func TestIsCourseComplete(t *testing.T) {
	progress := &models.CourseProgress{}
	progress.AddCompleted(1)
	progress.AddCompleted(2)

	assert.True(t, IsCourseComplete(2, progress))
	assert.False(t, IsCourseComplete(3, progress))
	assert.False(t, IsCourseComplete(0, progress))
	assert.False(t, IsCourseComplete(2, nil))
}

func TestMarkCourseCompletedOnce(t *testing.T) {
	svc := NewProgressService(newTestDB(t))

	first, created, err := svc.MarkCourseCompleted(1, 1, 100, true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 100, first.Score)
	assert.True(t, first.AutoCompleted)

	// Later completions never change the stored record
	second, created, err := svc.MarkCourseCompleted(1, 1, 85, false)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 100, second.Score)
	assert.True(t, second.AutoCompleted)
}

func TestModuleStatus(t *testing.T) {
	assert.Equal(t, "current", ModuleStatus(nil, 1))
	assert.Equal(t, "locked", ModuleStatus(nil, 2))

	progress := &models.CourseProgress{CurrentModule: 3}
	progress.AddCompleted(1)

	assert.Equal(t, "completed", ModuleStatus(progress, 1))
	assert.Equal(t, "available", ModuleStatus(progress, 2))
	assert.Equal(t, "current", ModuleStatus(progress, 3))
	assert.Equal(t, "locked", ModuleStatus(progress, 4))
}
