package models

import (
	"encoding/json"
	"sort"

	"gorm.io/gorm"
)

// CourseProgress is the per-user, per-course record of module completion.
// CompletedModules is a JSON array of module sequence orders treated as a
// set. Version backs the optimistic-concurrency update loop: writers bump
// it with a conditional UPDATE and retry on conflict, so concurrent quiz
// submissions cannot lose completed modules.
type CourseProgress struct {
	gorm.Model
	UserID           uint `gorm:"index:idx_progress_user_course,unique"`
	CourseID         uint `gorm:"index:idx_progress_user_course,unique"`
	CurrentModule    int  `gorm:"default:1"`
	CompletedModules string
	Version          int `gorm:"default:0"`
}

func (p *CourseProgress) CompletedList() []int {
	var completed []int
	if p.CompletedModules != "" {
		_ = json.Unmarshal([]byte(p.CompletedModules), &completed)
	}
	return completed
}

func (p *CourseProgress) HasCompleted(moduleID int) bool {
	for _, m := range p.CompletedList() {
		if m == moduleID {
			return true
		}
	}
	return false
}

// AddCompleted set-adds a module order and advances CurrentModule. Both are
// monotone: the set never shrinks and CurrentModule never decreases.
func (p *CourseProgress) AddCompleted(moduleID int) {
	completed := p.CompletedList()
	for _, m := range completed {
		if m == moduleID {
			return
		}
	}
	completed = append(completed, moduleID)
	sort.Ints(completed)
	data, _ := json.Marshal(completed)
	p.CompletedModules = string(data)
	if moduleID+1 > p.CurrentModule {
		p.CurrentModule = moduleID + 1
	}
}

// RoadmapProgress tracks a user following a catalog roadmap. One row per
// (user, roadmap) pair.
type RoadmapProgress struct {
	gorm.Model
	UserID          uint   `gorm:"index:idx_roadmap_user,unique"`
	RoadmapID       string `gorm:"index:idx_roadmap_user,unique"`
	CurrentPhase    string `gorm:"default:Foundation"`
	CompletedTopics string // JSON array of topic strings
	InProgressTopic string
	PercentComplete int `gorm:"default:0"`
}

func (p *RoadmapProgress) CompletedTopicList() []string {
	var topics []string
	if p.CompletedTopics != "" {
		_ = json.Unmarshal([]byte(p.CompletedTopics), &topics)
	}
	return topics
}

func (p *RoadmapProgress) AddCompletedTopic(topic string) {
	topics := p.CompletedTopicList()
	for _, t := range topics {
		if t == topic {
			return
		}
	}
	topics = append(topics, topic)
	data, _ := json.Marshal(topics)
	p.CompletedTopics = string(data)
}
