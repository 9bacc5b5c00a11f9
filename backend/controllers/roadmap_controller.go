package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qizz/backend/config"
	"qizz/backend/services"
	"qizz/backend/utils"
)

type RoadmapController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Roadmaps *services.RoadmapService
}

func NewRoadmapController(db *gorm.DB, cfg *config.Config, roadmaps *services.RoadmapService) *RoadmapController {
	return &RoadmapController{DB: db, Cfg: cfg, Roadmaps: roadmaps}
}

// Popular lists the catalog. Public, no auth required.
func (rc *RoadmapController) Popular(c *fiber.Ctx) error {
	catalog := rc.Roadmaps.Catalog()

	roadmaps := make([]fiber.Map, 0, len(catalog))
	for _, roadmap := range catalog {
		roadmaps = append(roadmaps, fiber.Map{
			"id":          roadmap.ID,
			"title":       roadmap.Title,
			"description": roadmap.Description,
			"duration":    roadmap.Duration,
			"difficulty":  roadmap.Difficulty,
			"topicCount":  len(roadmap.Topics),
		})
	}

	return c.JSON(fiber.Map{
		"roadmaps": roadmaps,
	})
}

// Detail returns one catalog roadmap with its phased learning path.
func (rc *RoadmapController) Detail(c *fiber.Ctx) error {
	roadmap, ok := rc.Roadmaps.Find(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Roadmap not found",
		})
	}

	return c.JSON(fiber.Map{
		"roadmap":             roadmap,
		"learningPath":        rc.Roadmaps.BuildLearningPath(roadmap),
		"careerOpportunities": rc.Roadmaps.CareerOpportunities(roadmap),
	})
}

func (rc *RoadmapController) GetProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	roadmap, ok := rc.Roadmaps.Find(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Roadmap not found",
		})
	}

	progress, err := rc.Roadmaps.GetOrCreateProgress(userID, roadmap.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"roadmapId":       progress.RoadmapID,
		"currentPhase":    progress.CurrentPhase,
		"completedTopics": progress.CompletedTopicList(),
		"inProgressTopic": progress.InProgressTopic,
		"percentComplete": progress.PercentComplete,
	})
}

func (rc *RoadmapController) UpdateProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	roadmap, ok := rc.Roadmaps.Find(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Roadmap not found",
		})
	}

	var input struct {
		CompletedTopic  string `json:"completedTopic"`
		CurrentPhase    string `json:"currentPhase"`
		InProgressTopic string `json:"inProgressTopic"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	progress, err := rc.Roadmaps.UpdateProgress(userID, roadmap.ID, input.CompletedTopic, input.CurrentPhase)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update progress",
		})
	}

	if input.InProgressTopic != "" && input.InProgressTopic != progress.InProgressTopic {
		progress.InProgressTopic = input.InProgressTopic
		if err := rc.DB.Model(progress).
			Update("in_progress_topic", input.InProgressTopic).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update progress",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Progress updated successfully",
		"progress": fiber.Map{
			"roadmapId":       progress.RoadmapID,
			"currentPhase":    progress.CurrentPhase,
			"completedTopics": progress.CompletedTopicList(),
			"inProgressTopic": progress.InProgressTopic,
			"percentComplete": progress.PercentComplete,
		},
	})
}

func (rc *RoadmapController) Follow(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	roadmap, ok := rc.Roadmaps.Find(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Roadmap not found",
		})
	}

	progress, err := rc.Roadmaps.GetOrCreateProgress(userID, roadmap.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to follow roadmap",
		})
	}

	return c.JSON(fiber.Map{
		"message":      "Roadmap followed successfully",
		"roadmapId":    progress.RoadmapID,
		"currentPhase": progress.CurrentPhase,
	})
}

func (rc *RoadmapController) Unfollow(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if err := rc.Roadmaps.Unfollow(userID, c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to unfollow roadmap",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Roadmap unfollowed successfully",
	})
}
