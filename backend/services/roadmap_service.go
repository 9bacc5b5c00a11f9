package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"qizz/backend/models"
)

// RoadmapService serves the static roadmap catalog and per-user follow
// state. The catalog is in-process by design; only RoadmapProgress rows
// are persisted.
type RoadmapService struct {
	DB *gorm.DB
}

func NewRoadmapService(db *gorm.DB) *RoadmapService {
	return &RoadmapService{DB: db}
}

var roadmapCatalog = []models.Roadmap{
	{
		ID:          "frontend-development",
		Title:       "Frontend Development",
		Description: "Complete roadmap for becoming a frontend developer",
		Duration:    "6-12 months",
		Difficulty:  "Beginner to Intermediate",
		Topics: []string{
			"HTML & CSS Fundamentals", "JavaScript Basics", "Responsive Design",
			"CSS Frameworks (Bootstrap, Tailwind)", "JavaScript ES6+", "DOM Manipulation",
			"React.js", "State Management", "API Integration", "Testing", "Build Tools", "Deployment",
		},
		Resources: []string{"MDN Web Docs", "FreeCodeCamp", "React Documentation", "CSS Tricks"},
	},
	{
		ID:          "backend-development",
		Title:       "Backend Development",
		Description: "Learn server-side development and APIs",
		Duration:    "8-12 months",
		Difficulty:  "Intermediate to Advanced",
		Topics: []string{
			"Programming Language (Node.js/Python/Java)", "Database Design", "SQL & NoSQL",
			"API Design", "Authentication & Authorization", "Server Architecture", "Cloud Services",
			"DevOps Basics", "Testing", "Security", "Performance Optimization", "Microservices",
		},
		Resources: []string{"Node.js Documentation", "MongoDB University", "AWS Documentation", "Docker Documentation"},
	},
	{
		ID:          "data-science",
		Title:       "Data Science",
		Description: "Complete data science learning path",
		Duration:    "12-18 months",
		Difficulty:  "Intermediate to Advanced",
		Topics: []string{
			"Mathematics & Statistics", "Python Programming", "Data Manipulation (Pandas)",
			"Data Visualization", "Machine Learning", "Deep Learning", "SQL for Data Analysis",
			"Big Data Tools", "Data Engineering", "Model Deployment", "A/B Testing", "Business Intelligence",
		},
		Resources: []string{"Kaggle Learn", "Coursera ML Course", "Python Data Science Handbook", "TensorFlow Documentation"},
	},
	{
		ID:          "cybersecurity",
		Title:       "Cybersecurity",
		Description: "Learn to protect systems and data",
		Duration:    "10-15 months",
		Difficulty:  "Intermediate to Advanced",
		Topics: []string{
			"Network Security", "Operating System Security", "Cryptography", "Web Application Security",
			"Penetration Testing", "Incident Response", "Risk Management", "Compliance & Regulations",
			"Security Tools", "Ethical Hacking", "Digital Forensics", "Security Architecture",
		},
		Resources: []string{"OWASP", "NIST Cybersecurity Framework", "SANS Training", "Cybrary"},
	},
	{
		ID:          "mobile-development",
		Title:       "Mobile Development",
		Description: "Build mobile applications for iOS and Android",
		Duration:    "8-12 months",
		Difficulty:  "Beginner to Intermediate",
		Topics: []string{
			"Programming Fundamentals", "Mobile UI/UX Design", "Native Development (Swift/Kotlin)",
			"Cross-platform Development", "React Native/Flutter", "Mobile APIs", "App Store Guidelines",
			"Performance Optimization", "Testing", "Deployment", "Push Notifications", "Analytics",
		},
		Resources: []string{"Apple Developer Documentation", "Android Developer Guide", "React Native Documentation", "Flutter Documentation"},
	},
}

func (s *RoadmapService) Catalog() []models.Roadmap {
	return roadmapCatalog
}

func (s *RoadmapService) Find(roadmapID string) (*models.Roadmap, bool) {
	for i := range roadmapCatalog {
		if roadmapCatalog[i].ID == roadmapID {
			return &roadmapCatalog[i], true
		}
	}
	return nil, false
}

// BuildLearningPath expands a catalog entry into phased detail: topics
// chunked in pairs across Foundation/Intermediate/Advanced.
func (s *RoadmapService) BuildLearningPath(roadmap *models.Roadmap) []models.RoadmapPhase {
	phaseNames := []string{"Foundation", "Intermediate", "Advanced"}
	phaseDurations := []string{"2-3 months", "3-4 months", "2-3 months"}

	var phases []models.RoadmapPhase
	for i := 0; i < len(roadmap.Topics); i += 2 {
		end := i + 2
		if end > len(roadmap.Topics) {
			end = len(roadmap.Topics)
		}
		idx := i / 2
		if idx >= len(phaseNames) {
			idx = len(phaseNames) - 1
		}

		var topics []models.RoadmapPhaseTopic
		for _, t := range roadmap.Topics[i:end] {
			resources := roadmap.Resources
			if len(resources) > 2 {
				resources = resources[:2]
			}
			topics = append(topics, models.RoadmapPhaseTopic{
				Title:         t,
				Description:   fmt.Sprintf("Learn %s with curated resources and hands-on practice", t),
				Resources:     resources,
				EstimatedTime: "30-60 hours",
			})
		}
		phases = append(phases, models.RoadmapPhase{
			Phase:    phaseNames[idx],
			Duration: phaseDurations[idx],
			Topics:   topics,
		})
	}
	return phases
}

// CareerOpportunities derives the catalog entry's career blurbs.
func (s *RoadmapService) CareerOpportunities(roadmap *models.Roadmap) []string {
	first := strings.Fields(roadmap.Title)[0]
	return []string{
		fmt.Sprintf("%s Engineer/Developer", roadmap.Title),
		fmt.Sprintf("%s Specialist", first),
	}
}

// GetOrCreateProgress starts following a roadmap on first access.
func (s *RoadmapService) GetOrCreateProgress(userID uint, roadmapID string) (*models.RoadmapProgress, error) {
	var progress models.RoadmapProgress
	err := s.DB.Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress = models.RoadmapProgress{
		UserID:       userID,
		RoadmapID:    roadmapID,
		CurrentPhase: "Foundation",
	}
	if err := s.DB.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpdateProgress set-adds a completed topic, moves the phase, and
// recomputes the percentage against the catalog topic count.
func (s *RoadmapService) UpdateProgress(userID uint, roadmapID, completedTopic, currentPhase string) (*models.RoadmapProgress, error) {
	progress, err := s.GetOrCreateProgress(userID, roadmapID)
	if err != nil {
		return nil, err
	}

	if currentPhase != "" {
		progress.CurrentPhase = currentPhase
	}
	if completedTopic != "" {
		progress.AddCompletedTopic(completedTopic)
	}

	totalTopics := len(progress.CompletedTopicList())
	if roadmap, ok := s.Find(roadmapID); ok {
		totalTopics = len(roadmap.Topics)
	}
	if totalTopics < 1 {
		totalTopics = 1
	}
	percent := int(math.Round(100 * float64(len(progress.CompletedTopicList())) / float64(totalTopics)))
	if percent > 100 {
		percent = 100
	}
	progress.PercentComplete = percent

	if err := s.DB.Save(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

// Unfollow removes the user's progress row for a roadmap. The delete is
// hard so the unique (user, roadmap) index allows following again later.
func (s *RoadmapService) Unfollow(userID uint, roadmapID string) error {
	return s.DB.Unscoped().Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		Delete(&models.RoadmapProgress{}).Error
}
