package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qizz/backend/config"
	"qizz/backend/models"
	"qizz/backend/services"
	"qizz/backend/utils"
)

type ChatbotController struct {
	DB  *gorm.DB
	Cfg *config.Config
	AI  *services.AIService
}

func NewChatbotController(db *gorm.DB, cfg *config.Config, ai *services.AIService) *ChatbotController {
	return &ChatbotController{DB: db, Cfg: cfg, AI: ai}
}

func (cb *ChatbotController) Chat(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, cb.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input struct {
		CourseID uint   `json:"courseId"`
		Question string `json:"question"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if strings.TrimSpace(input.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Question is required",
		})
	}

	courseContext := ""
	var topics []string
	if input.CourseID != 0 {
		var course models.Course
		if err := cb.DB.First(&course, input.CourseID).Error; err == nil {
			topics = course.TopicList()
			courseContext = course.Title
			if course.Description != "" {
				courseContext += ". " + course.Description
			}
		}
	}

	answer := cb.AI.ChatResponse(c.UserContext(), input.Question, courseContext, topics)

	return c.JSON(fiber.Map{
		"response": answer,
	})
}

func (cb *ChatbotController) SuggestedQuestions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cb.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := cb.DB.First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Course not found",
		})
	}
	if course.CreatedByID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	questions := cb.AI.SuggestedQuestions(c.UserContext(), course.TopicList())

	return c.JSON(fiber.Map{
		"questions": questions,
	})
}

func (cb *ChatbotController) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"available": cb.AI.Available(),
	})
}
