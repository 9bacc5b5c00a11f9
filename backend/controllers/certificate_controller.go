package controllers

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qizz/backend/config"
	"qizz/backend/models"
	"qizz/backend/services"
	"qizz/backend/utils"
)

type CertificateController struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Certificates *services.CertificateService
}

func NewCertificateController(db *gorm.DB, cfg *config.Config, certificates *services.CertificateService) *CertificateController {
	return &CertificateController{DB: db, Cfg: cfg, Certificates: certificates}
}

func (cc *CertificateController) Generate(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	var completed models.CompletedCourse
	if err := cc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&completed).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Course not completed yet",
		})
	}

	// One certificate per completion; regeneration returns the stored one.
	if completed.CertificateURL != "" {
		return c.JSON(fiber.Map{
			"message":        "Certificate already generated",
			"certificateId":  completed.CertificateID,
			"certificateUrl": completed.CertificateURL,
		})
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Course not found",
		})
	}

	cert, err := cc.Certificates.Render(user.Name, course.Title, completed.Score, userID, course.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate certificate",
		})
	}

	completed.CertificateID = cert.ID
	completed.CertificateURL = cert.URL
	completed.CertificatePath = cert.Path
	if err := cc.DB.Model(&completed).Updates(map[string]interface{}{
		"certificate_id":   cert.ID,
		"certificate_url":  cert.URL,
		"certificate_path": cert.Path,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save certificate",
		})
	}

	return c.JSON(fiber.Map{
		"message":        "Certificate generated successfully",
		"certificateId":  cert.ID,
		"certificateUrl": cert.URL,
	})
}

func (cc *CertificateController) MyCertificates(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var completions []models.CompletedCourse
	if err := cc.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").Find(&completions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	certificates := make([]fiber.Map, 0, len(completions))
	for _, completion := range completions {
		var course models.Course
		title := "Unknown course"
		if err := cc.DB.First(&course, completion.CourseID).Error; err == nil {
			title = course.Title
		}
		certificates = append(certificates, fiber.Map{
			"courseId":       completion.CourseID,
			"courseTitle":    title,
			"score":          completion.Score,
			"completedAt":    completion.CompletedAt,
			"certificateId":  completion.CertificateID,
			"certificateUrl": completion.CertificateURL,
			"generated":      completion.CertificateURL != "",
		})
	}

	return c.JSON(fiber.Map{
		"certificates": certificates,
	})
}

func (cc *CertificateController) Download(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	var completed models.CompletedCourse
	if err := cc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&completed).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Certificate not found",
		})
	}

	if completed.CertificatePath == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Certificate not generated yet",
		})
	}
	if _, err := os.Stat(completed.CertificatePath); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Certificate file is missing",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Download(completed.CertificatePath, "certificate.pdf")
}
