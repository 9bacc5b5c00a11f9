package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Subject     string
	Level       string // beginner, intermediate, advanced
	CreatedByID uint   `gorm:"index"`

	SourceFilename     string
	SourceOriginalName string
	SourcePath         string
	SourceSize         int64
	// Raw text extracted from the uploaded PDF, truncated for storage
	SourceText string

	ExtractedTopics   string // JSON array of topic strings
	TotalModules      int    `gorm:"default:0"`
	EstimatedDuration int    `gorm:"default:0"` // in hours
	IsActive          bool   `gorm:"default:true"`

	Modules []Module `gorm:"constraint:OnDelete:CASCADE"`
	Quizzes []Quiz   `gorm:"constraint:OnDelete:CASCADE"`
}

func (c *Course) TopicList() []string {
	var topics []string
	if c.ExtractedTopics != "" {
		_ = json.Unmarshal([]byte(c.ExtractedTopics), &topics)
	}
	return topics
}

func (c *Course) SetTopics(topics []string) {
	data, _ := json.Marshal(topics)
	c.ExtractedTopics = string(data)
}

type Module struct {
	gorm.Model
	CourseID          uint   `gorm:"index"`
	Title             string `gorm:"not null"`
	Content           string `gorm:"not null"`
	SimplifiedContent string
	SequenceOrder     int    `gorm:"index"` // 1-based, unique within a course
	Difficulty        string `gorm:"default:beginner"`
	EstimatedTime     int    `gorm:"default:15"` // in minutes
}

// Quiz belongs to one module of a course, keyed by the module's sequence
// order. The final exam is stored as a quiz with ModuleID 0 and IsFinal set.
type Quiz struct {
	gorm.Model
	CourseID     uint `gorm:"index"`
	ModuleID     int  `gorm:"index"`
	IsFinal      bool `gorm:"default:false"`
	PassingScore int  `gorm:"default:70"`
	TimeLimit    int  `gorm:"default:10"` // in minutes

	Questions []QuizQuestion `gorm:"constraint:OnDelete:CASCADE"`
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint   `gorm:"index"`
	Question      string `gorm:"not null"`
	Options       string `gorm:"not null"` // JSON array of exactly 4 options
	CorrectAnswer int
	Explanation   string
}

func (q *QuizQuestion) OptionList() []string {
	var options []string
	if q.Options != "" {
		_ = json.Unmarshal([]byte(q.Options), &options)
	}
	return options
}

func (q *QuizQuestion) SetOptions(options []string) {
	data, _ := json.Marshal(options)
	q.Options = string(data)
}
