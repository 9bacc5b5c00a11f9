package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"qizz/backend/models"
)

// ProgressService owns the per-user course progression state machine:
// not-started -> in-progress -> completed. All state lives in the store;
// writes to shared progress rows go through an optimistic-concurrency loop.
type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

const maxVersionRetries = 5

var ErrProgressConflict = errors.New("progress update conflict")

// QuestionResult is the per-question grading detail returned to the client.
type QuestionResult struct {
	Question      string `json:"question"`
	UserAnswer    int    `json:"userAnswer"`
	CorrectAnswer int    `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

type GradeResult struct {
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	CorrectAnswers int              `json:"correctAnswers"`
	TotalQuestions int              `json:"totalQuestions"`
	Results        []QuestionResult `json:"results"`
}

// Grade scores submitted answers against quiz questions. Missing answers
// count as wrong. score = round(100 * correct / total).
func Grade(questions []models.QuizQuestion, answers []int, passingScore int) GradeResult {
	correct := 0
	results := make([]QuestionResult, 0, len(questions))

	for i, q := range questions {
		answer := -1
		if i < len(answers) {
			answer = answers[i]
		}
		isCorrect := answer == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			Question:      q.Question,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	score := 0
	if len(questions) > 0 {
		score = int(math.Round(100 * float64(correct) / float64(len(questions))))
	}

	return GradeResult{
		Score:          score,
		Passed:         score >= passingScore,
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
		Results:        results,
	}
}

// GetProgress returns the progress row for (user, course), nil when the
// course has not been started.
func (s *ProgressService) GetProgress(userID, courseID uint) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetOrCreateProgress transitions not-started -> in-progress: the first
// touch of a course creates its progress row with CurrentModule 1.
func (s *ProgressService) GetOrCreateProgress(userID, courseID uint) (*models.CourseProgress, error) {
	progress, err := s.GetProgress(userID, courseID)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		return progress, nil
	}

	created := models.CourseProgress{
		UserID:        userID,
		CourseID:      courseID,
		CurrentModule: 1,
	}
	if err := s.DB.Create(&created).Error; err != nil {
		// A concurrent first touch may have won the insert.
		if existing, lookupErr := s.GetProgress(userID, courseID); lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return &created, nil
}

// CompleteModule set-adds a module order and advances CurrentModule using
// a conditional update keyed on the version column. Retries re-read the
// row, so a concurrent writer's completed modules are never overwritten.
func (s *ProgressService) CompleteModule(userID, courseID uint, moduleID int) (*models.CourseProgress, error) {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		progress, err := s.GetOrCreateProgress(userID, courseID)
		if err != nil {
			return nil, err
		}
		if progress.HasCompleted(moduleID) {
			return progress, nil
		}

		progress.AddCompleted(moduleID)
		res := s.DB.Model(&models.CourseProgress{}).
			Where("id = ? AND version = ?", progress.ID, progress.Version).
			Updates(map[string]interface{}{
				"current_module":    progress.CurrentModule,
				"completed_modules": progress.CompletedModules,
				"version":           progress.Version + 1,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			progress.Version++
			return progress, nil
		}
		// Version conflict: another writer got there first, reload.
	}
	return nil, ErrProgressConflict
}

// RecordAttempt upserts the single attempt row for (user, course, module).
// The counter is cumulative across retakes.
func (s *ProgressService) RecordAttempt(userID, courseID uint, moduleID int, passed bool) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.DB.Where("user_id = ? AND course_id = ? AND module_id = ?", userID, courseID, moduleID).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		attempt = models.QuizAttempt{
			UserID:      userID,
			CourseID:    courseID,
			ModuleID:    moduleID,
			Attempts:    1,
			Passed:      passed,
			LastAttempt: time.Now(),
		}
		if err := s.DB.Create(&attempt).Error; err != nil {
			return nil, err
		}
		return &attempt, nil
	}
	if err != nil {
		return nil, err
	}

	attempt.Attempts++
	attempt.Passed = passed
	attempt.LastAttempt = time.Now()
	if err := s.DB.Save(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// IsCourseComplete reports whether every module is completed. A course
// with zero modules can never complete.
func IsCourseComplete(totalModules int, progress *models.CourseProgress) bool {
	if progress == nil || totalModules == 0 {
		return false
	}
	return len(progress.CompletedList()) >= totalModules
}

// MarkCourseCompleted appends the CompletedCourse record once. It reports
// whether this call performed the transition.
func (s *ProgressService) MarkCourseCompleted(userID, courseID uint, score int, autoCompleted bool) (*models.CompletedCourse, bool, error) {
	var existing models.CompletedCourse
	err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	completed := models.CompletedCourse{
		UserID:        userID,
		CourseID:      courseID,
		CompletedAt:   time.Now(),
		Score:         score,
		AutoCompleted: autoCompleted,
	}
	if err := s.DB.Create(&completed).Error; err != nil {
		// Unique index may have been hit by a concurrent completion.
		if lookupErr := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&existing).Error; lookupErr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &completed, true, nil
}

// ModuleStatus is the derived unlock view for one module order. Nothing is
// stored: with no progress row, module 1 is current and the rest locked.
func ModuleStatus(progress *models.CourseProgress, order int) string {
	current := 1
	completed := make(map[int]bool)
	if progress != nil {
		current = progress.CurrentModule
		for _, m := range progress.CompletedList() {
			completed[m] = true
		}
	}
	switch {
	case completed[order]:
		return "completed"
	case order == current:
		return "current"
	case order < current:
		return "available"
	default:
		return "locked"
	}
}
