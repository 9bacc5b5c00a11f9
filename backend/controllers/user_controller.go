package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qizz/backend/config"
	"qizz/backend/models"
	"qizz/backend/utils"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var completed []models.CompletedCourse
	uc.DB.Where("user_id = ?", userID).Find(&completed)

	return c.JSON(fiber.Map{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.Avatar,
		"preferences": fiber.Map{
			"learningStyle":   user.LearningStyle,
			"difficultyLevel": user.DifficultyLevel,
		},
		"completedCourses": len(completed),
	})
}

func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input struct {
		Name            string `json:"name"`
		Avatar          string `json:"avatar"`
		LearningStyle   string `json:"learningStyle"`
		DifficultyLevel string `json:"difficultyLevel"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.LearningStyle != "" {
		if !isValidLearningStyle(input.LearningStyle) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid learning style",
			})
		}
		user.LearningStyle = input.LearningStyle
	}
	if input.DifficultyLevel != "" {
		if !isValidDifficulty(input.DifficultyLevel) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid difficulty level",
			})
		}
		user.DifficultyLevel = input.DifficultyLevel
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user": fiber.Map{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"avatar": user.Avatar,
			"preferences": fiber.Map{
				"learningStyle":   user.LearningStyle,
				"difficultyLevel": user.DifficultyLevel,
			},
		},
	})
}

func isValidLearningStyle(s string) bool {
	switch s {
	case "visual", "auditory", "kinesthetic", "reading":
		return true
	}
	return false
}

func isValidDifficulty(s string) bool {
	switch s {
	case "beginner", "intermediate", "advanced":
		return true
	}
	return false
}
