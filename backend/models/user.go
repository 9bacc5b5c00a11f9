package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name            string `gorm:"not null"`
	Email           string `gorm:"unique;not null"`
	PasswordHash    string `gorm:"not null"`
	Avatar          string
	LearningStyle   string `gorm:"default:reading"`  // visual, auditory, kinesthetic, reading
	DifficultyLevel string `gorm:"default:beginner"` // beginner, intermediate, advanced
}

// CompletedCourse records a finished course for a user. Score is 100 when
// the course was auto-completed by passing every module quiz, or the real
// exam score when completed through the final exam.
type CompletedCourse struct {
	gorm.Model
	UserID          uint `gorm:"index:idx_completed_user_course,unique"`
	CourseID        uint `gorm:"index:idx_completed_user_course,unique"`
	CompletedAt     time.Time
	Score           int
	CertificateID   string
	CertificateURL  string
	CertificatePath string
	AutoCompleted   bool
}

// QuizAttempt keeps one row per (user, course, module). Retakes mutate the
// row in place, the attempt counter is cumulative.
type QuizAttempt struct {
	gorm.Model
	UserID      uint `gorm:"index:idx_attempt_user_course_module,unique"`
	CourseID    uint `gorm:"index:idx_attempt_user_course_module,unique"`
	ModuleID    int  `gorm:"index:idx_attempt_user_course_module,unique"`
	Attempts    int
	Passed      bool
	LastAttempt time.Time
}
