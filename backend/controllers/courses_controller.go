package controllers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qizz/backend/config"
	"qizz/backend/models"
	"qizz/backend/services"
	"qizz/backend/utils"
)

type CoursesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	AI       *services.AIService
	PDF      *services.PDFService
	Progress *services.ProgressService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, ai *services.AIService, pdf *services.PDFService, progress *services.ProgressService) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, AI: ai, PDF: pdf, Progress: progress}
}

func (cc *CoursesController) CreateFromPDF(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No PDF file uploaded",
		})
	}

	if err := cc.PDF.Validate(fileHeader.Header.Get("Content-Type"), fileHeader.Size); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded file",
		})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded file",
		})
	}

	saved, err := cc.PDF.Save(content, fileHeader.Filename, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save PDF file",
		})
	}

	text, _, err := cc.PDF.ExtractText(content)
	if err != nil || len(text) < 100 {
		cc.PDF.Delete(saved.Path)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "PDF appears to be empty or unreadable",
		})
	}

	topics := cc.extractTopicsWithFallback(c, text)

	course := models.Course{
		Title:              fmt.Sprintf("Course from %s", saved.OriginalName),
		Description:        fmt.Sprintf("AI-generated course based on %s", saved.OriginalName),
		Subject:            "General",
		Level:              "beginner",
		CreatedByID:        userID,
		SourceFilename:     saved.Filename,
		SourceOriginalName: saved.OriginalName,
		SourcePath:         saved.Path,
		SourceSize:         saved.Size,
		SourceText:         truncateText(text, 25000),
		TotalModules:       len(topics),
		EstimatedDuration:  (len(topics) + 1) / 2, // 30 minutes per module
		IsActive:           true,
	}
	course.SetTopics(topics)

	if err := cc.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course created successfully",
		"course": fiber.Map{
			"id":                course.ID,
			"title":             course.Title,
			"topics":            course.TopicList(),
			"totalModules":      course.TotalModules,
			"estimatedDuration": course.EstimatedDuration,
		},
	})
}

// extractTopicsWithFallback never gives up: AI extraction first, then
// structural heading extraction, then leading sentences.
func (cc *CoursesController) extractTopicsWithFallback(c *fiber.Ctx, text string) []string {
	topics := cc.AI.ExtractTopics(c.UserContext(), text)
	if len(topics) == 0 {
		topics = services.ExtractKeySections(text)
		if len(topics) > 15 {
			topics = topics[:15]
		}
	}
	if len(topics) == 0 {
		topics = services.SentenceTopics(text)
	}
	return topics
}

func (cc *CoursesController) GetUserCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var courses []models.Course
	cc.DB.Where("created_by_id = ?", userID).Order("created_at DESC").Find(&courses)

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":                course.ID,
			"title":             course.Title,
			"description":       course.Description,
			"subject":           course.Subject,
			"level":             course.Level,
			"totalModules":      course.TotalModules,
			"estimatedDuration": course.EstimatedDuration,
			"createdAt":         course.CreatedAt,
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := cc.loadCourse(c)
	if course == nil {
		return status
	}

	progress, err := cc.Progress.GetProgress(userID, course.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	modules := make([]fiber.Map, 0, len(course.Modules))
	for _, m := range course.Modules {
		modules = append(modules, fiber.Map{
			"id":            m.ID,
			"title":         m.Title,
			"order":         m.SequenceOrder,
			"difficulty":    m.Difficulty,
			"estimatedTime": m.EstimatedTime,
			"status":        services.ModuleStatus(progress, m.SequenceOrder),
		})
	}

	quizModules := make([]int, 0, len(course.Quizzes))
	hasFinalQuiz := false
	for _, q := range course.Quizzes {
		if q.IsFinal {
			hasFinalQuiz = true
			continue
		}
		quizModules = append(quizModules, q.ModuleID)
	}

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":                course.ID,
			"title":             course.Title,
			"description":       course.Description,
			"subject":           course.Subject,
			"level":             course.Level,
			"topics":            course.TopicList(),
			"totalModules":      course.TotalModules,
			"estimatedDuration": course.EstimatedDuration,
			"modules":           modules,
			"quizModules":       quizModules,
			"hasFinalQuiz":      hasFinalQuiz,
		},
		"progress": progressPayload(progress),
	})
}

func (cc *CoursesController) GenerateModules(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := cc.loadCourse(c)
	if course == nil {
		return status
	}

	if course.CreatedByID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	topics := course.TopicList()
	if len(topics) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No topics found for this course. Use Regenerate from PDF first.",
		})
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	modules := cc.generateModules(c, course, topics, &user)

	if err := cc.replaceModules(course, modules); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save modules",
		})
	}

	result := make([]fiber.Map, 0, len(modules))
	for _, m := range modules {
		result = append(result, fiber.Map{
			"id":            m.ID,
			"title":         m.Title,
			"order":         m.SequenceOrder,
			"estimatedTime": m.EstimatedTime,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Modules generated successfully",
		"modules": result,
	})
}

func (cc *CoursesController) Regenerate(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := cc.loadCourse(c)
	if course == nil {
		return status
	}

	if course.CreatedByID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	sourceText := course.SourceText
	if sourceText == "" && course.SourcePath != "" {
		extracted, _, err := cc.PDF.ExtractTextFromFile(course.SourcePath)
		if err == nil {
			sourceText = extracted
			course.SourceText = truncateText(extracted, 25000)
		}
	}
	if sourceText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No source PDF text available to regenerate from.",
		})
	}

	topics := cc.extractTopicsWithFallback(c, sourceText)

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	course.SetTopics(topics)
	modules := cc.generateModules(c, course, topics, &user)

	if err := cc.replaceModules(course, modules); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save modules",
		})
	}

	// Quizzes go stale once the modules they cover are replaced.
	if err := cc.clearQuizzes(course.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear quizzes",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course regenerated from PDF successfully",
		"course": fiber.Map{
			"id":                course.ID,
			"title":             course.Title,
			"topics":            course.TopicList(),
			"totalModules":      course.TotalModules,
			"estimatedDuration": course.EstimatedDuration,
		},
	})
}

func (cc *CoursesController) generateModules(c *fiber.Ctx, course *models.Course, topics []string, user *models.User) []models.Module {
	modules := make([]models.Module, 0, len(topics))
	for i, topic := range topics {
		content := cc.AI.GenerateModuleContent(c.UserContext(), topic, user.DifficultyLevel, user.LearningStyle, course.SourceText)
		estimated := services.EstimateReadingTime(content)
		if estimated < 15 {
			estimated = 15
		}
		modules = append(modules, models.Module{
			CourseID:      course.ID,
			Title:         topic,
			Content:       content,
			SequenceOrder: i + 1,
			Difficulty:    user.DifficultyLevel,
			EstimatedTime: estimated,
		})
	}
	return modules
}

// replaceModules swaps the course's module set wholesale and keeps the
// totalModules invariant in step.
func (cc *CoursesController) replaceModules(course *models.Course, modules []models.Module) error {
	return cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Module{}).Error; err != nil {
			return err
		}
		for i := range modules {
			if err := tx.Create(&modules[i]).Error; err != nil {
				return err
			}
		}
		course.TotalModules = len(modules)
		course.EstimatedDuration = (len(modules) + 1) / 2
		return tx.Save(course).Error
	})
}

func (cc *CoursesController) clearQuizzes(courseID uint) error {
	return cc.DB.Transaction(func(tx *gorm.DB) error {
		var quizzes []models.Quiz
		if err := tx.Where("course_id = ?", courseID).Find(&quizzes).Error; err != nil {
			return err
		}
		for _, q := range quizzes {
			if err := tx.Where("quiz_id = ?", q.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("course_id = ?", courseID).Delete(&models.Quiz{}).Error
	})
}

func (cc *CoursesController) GetModule(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := cc.loadCourse(c)
	if course == nil {
		return status
	}

	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid module ID",
		})
	}

	module := findModule(course, moduleID)
	if module == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Module not found",
		})
	}

	progress, err := cc.Progress.GetProgress(userID, course.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"id":                module.ID,
		"title":             module.Title,
		"content":           module.Content,
		"simplifiedContent": module.SimplifiedContent,
		"order":             module.SequenceOrder,
		"difficulty":        module.Difficulty,
		"estimatedTime":     module.EstimatedTime,
		"status":            services.ModuleStatus(progress, module.SequenceOrder),
	})
}

func (cc *CoursesController) UpdateProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := cc.loadCourse(c)
	if course == nil {
		return status
	}

	var input struct {
		ModuleID  int  `json:"moduleId"`
		Completed bool `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var progress *models.CourseProgress
	if input.Completed {
		progress, err = cc.Progress.CompleteModule(userID, course.ID, input.ModuleID)
	} else {
		progress, err = cc.Progress.GetOrCreateProgress(userID, course.ID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update progress",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Progress updated successfully",
		"progress": progressPayload(progress),
	})
}

func (cc *CoursesController) RelatedRoadmaps(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := cc.loadCourse(c)
	if course == nil {
		return status
	}

	if course.CreatedByID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	roadmaps := cc.AI.GenerateRelatedRoadmaps(c.UserContext(), course.TopicList(), course.SourceText)

	return c.JSON(fiber.Map{
		"message":  "Related roadmaps generated successfully",
		"roadmaps": roadmaps,
	})
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := cc.loadCourse(c)
	if course == nil {
		return status
	}

	if course.CreatedByID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	if err := cc.PDF.Delete(course.SourcePath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete PDF file",
		})
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Module{}).Error; err != nil {
			return err
		}
		var quizzes []models.Quiz
		if err := tx.Where("course_id = ?", course.ID).Find(&quizzes).Error; err != nil {
			return err
		}
		for _, q := range quizzes {
			if err := tx.Where("quiz_id = ?", q.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted successfully",
	})
}

// loadCourse resolves the :id param with modules and quizzes preloaded.
// On failure it has already written the response and returns nil course.
func (cc *CoursesController) loadCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := cc.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).Preload("Quizzes").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Course not found",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return &course, nil
}

func findModule(course *models.Course, order int) *models.Module {
	for i := range course.Modules {
		if course.Modules[i].SequenceOrder == order {
			return &course.Modules[i]
		}
	}
	return nil
}

func progressPayload(progress *models.CourseProgress) fiber.Map {
	if progress == nil {
		return fiber.Map{
			"currentModule":    1,
			"completedModules": []int{},
			"started":          false,
		}
	}
	completed := progress.CompletedList()
	if completed == nil {
		completed = []int{}
	}
	return fiber.Map{
		"courseId":         progress.CourseID,
		"currentModule":    progress.CurrentModule,
		"completedModules": completed,
		"started":          true,
	}
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
