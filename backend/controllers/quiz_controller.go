package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qizz/backend/config"
	"qizz/backend/models"
	"qizz/backend/services"
	"qizz/backend/utils"
)

const (
	moduleQuizQuestions = 5
	finalExamQuestions  = 20

	moduleQuizPassingScore = 70
	finalExamPassingScore  = 80

	moduleQuizTimeLimit = 10
	finalExamTimeLimit  = 30
)

type QuizController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	AI       *services.AIService
	Progress *services.ProgressService
}

func NewQuizController(db *gorm.DB, cfg *config.Config, ai *services.AIService, progress *services.ProgressService) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, AI: ai, Progress: progress}
}

func (qc *QuizController) GenerateQuiz(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, qc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, moduleID, status := qc.loadCourseModule(c)
	if course == nil {
		return status
	}

	var module models.Module
	if err := qc.DB.Where("course_id = ? AND sequence_order = ?", course.ID, moduleID).
		First(&module).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Module not found",
		})
	}

	// Quizzes are generated once per module and reused afterwards.
	var existing models.Quiz
	err := qc.DB.Preload("Questions").
		Where("course_id = ? AND module_id = ? AND is_final = ?", course.ID, moduleID, false).
		First(&existing).Error
	if err == nil {
		return c.JSON(fiber.Map{
			"message": "Quiz already exists",
			"quiz":    quizPayload(&existing),
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	questions := qc.AI.GenerateQuizQuestions(c.UserContext(), module.Title, module.Content, course.SourceText, moduleQuizQuestions)

	quiz := models.Quiz{
		CourseID:     course.ID,
		ModuleID:     moduleID,
		PassingScore: moduleQuizPassingScore,
		TimeLimit:    moduleQuizTimeLimit,
	}
	if err := qc.createQuiz(&quiz, questions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save quiz",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Quiz generated successfully",
		"quiz":    quizPayload(&quiz),
	})
}

func (qc *QuizController) GetQuiz(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, qc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, moduleID, status := qc.loadCourseModule(c)
	if course == nil {
		return status
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions").
		Where("course_id = ? AND module_id = ? AND is_final = ?", course.ID, moduleID, false).
		First(&quiz).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Quiz not found. Generate it first.",
		})
	}

	return c.JSON(fiber.Map{
		"quiz": quizPayload(&quiz),
	})
}

func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, moduleID, status := qc.loadCourseModule(c)
	if course == nil {
		return status
	}

	var input struct {
		Answers []int `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions").
		Where("course_id = ? AND module_id = ? AND is_final = ?", course.ID, moduleID, false).
		First(&quiz).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Quiz not found",
		})
	}

	result := services.Grade(quiz.Questions, input.Answers, quiz.PassingScore)

	attempt, err := qc.Progress.RecordAttempt(userID, course.ID, moduleID, result.Passed)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to record attempt",
		})
	}

	response := fiber.Map{
		"score":           result.Score,
		"passed":          result.Passed,
		"correctAnswers":  result.CorrectAnswers,
		"totalQuestions":  result.TotalQuestions,
		"results":         result.Results,
		"attempts":        attempt.Attempts,
		"courseCompleted": false,
	}

	if result.Passed {
		progress, err := qc.Progress.CompleteModule(userID, course.ID, moduleID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update progress",
			})
		}
		response["currentModule"] = progress.CurrentModule
		response["completedModules"] = progress.CompletedList()

		if services.IsCourseComplete(course.TotalModules, progress) {
			// Finishing every module quiz completes the course outright
			// with a full score. The final exam records its real score
			// and is the stricter path.
			if _, _, err := qc.Progress.MarkCourseCompleted(userID, course.ID, 100, true); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Failed to record course completion",
				})
			}
			response["courseCompleted"] = true
		}
	} else {
		response["simplifiedContent"] = qc.simplifiedContentFor(c, course.ID, moduleID)
	}

	userAnswers := make([]int, 0, len(result.Results))
	correctAnswers := make([]int, 0, len(result.Results))
	for _, r := range result.Results {
		userAnswers = append(userAnswers, r.UserAnswer)
		correctAnswers = append(correctAnswers, r.CorrectAnswer)
	}
	topic := ""
	var module models.Module
	if err := qc.DB.Where("course_id = ? AND sequence_order = ?", course.ID, moduleID).
		First(&module).Error; err == nil {
		topic = module.Title
	}
	response["feedback"] = qc.AI.AnalyzeLearningProgress(c.UserContext(), userAnswers, correctAnswers, topic)

	return c.JSON(response)
}

// simplifiedContentFor returns the module's simplified explanation,
// generating and caching it on first failure. Errors degrade to "".
func (qc *QuizController) simplifiedContentFor(c *fiber.Ctx, courseID uint, moduleOrder int) string {
	var module models.Module
	if err := qc.DB.Where("course_id = ? AND sequence_order = ?", courseID, moduleOrder).
		First(&module).Error; err != nil {
		return ""
	}
	if module.SimplifiedContent != "" {
		return module.SimplifiedContent
	}
	simplified := qc.AI.GenerateSimplifiedContent(c.UserContext(), module.Content, module.Title)
	module.SimplifiedContent = simplified
	qc.DB.Model(&module).Update("simplified_content", simplified)
	return simplified
}

func (qc *QuizController) GenerateFinalExam(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := qc.loadCourse(c)
	if course == nil {
		return status
	}

	if course.CreatedByID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	if len(course.TopicList()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Course has no topics to build a final exam from",
		})
	}

	var existing models.Quiz
	err = qc.DB.Preload("Questions").
		Where("course_id = ? AND is_final = ?", course.ID, true).
		First(&existing).Error
	if err == nil {
		return c.JSON(fiber.Map{
			"message": "Final exam already exists",
			"quiz":    quizPayload(&existing),
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	questions := qc.AI.GenerateFinalQuiz(c.UserContext(), course.TopicList(), finalExamQuestions)

	quiz := models.Quiz{
		CourseID:     course.ID,
		ModuleID:     0,
		IsFinal:      true,
		PassingScore: finalExamPassingScore,
		TimeLimit:    finalExamTimeLimit,
	}
	if err := qc.createQuiz(&quiz, questions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save final exam",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Final exam generated successfully",
		"quiz":    quizPayload(&quiz),
	})
}

func (qc *QuizController) SubmitFinalExam(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := qc.loadCourse(c)
	if course == nil {
		return status
	}

	var input struct {
		Answers []int `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions").
		Where("course_id = ? AND is_final = ?", course.ID, true).
		First(&quiz).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Final exam not found",
		})
	}

	result := services.Grade(quiz.Questions, input.Answers, quiz.PassingScore)

	response := fiber.Map{
		"score":               result.Score,
		"passed":              result.Passed,
		"correctAnswers":      result.CorrectAnswers,
		"totalQuestions":      result.TotalQuestions,
		"results":             result.Results,
		"certificateEligible": result.Passed,
	}

	if result.Passed {
		completed, _, err := qc.Progress.MarkCourseCompleted(userID, course.ID, result.Score, false)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to record course completion",
			})
		}
		response["courseCompleted"] = true
		response["finalScore"] = completed.Score
	}

	return c.JSON(response)
}

func (qc *QuizController) CompletionStatus(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	course, status := qc.loadCourse(c)
	if course == nil {
		return status
	}

	progress, err := qc.Progress.GetProgress(userID, course.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	completedCount := 0
	if progress != nil {
		completedCount = len(progress.CompletedList())
	}

	var completed models.CompletedCourse
	isCompleted := qc.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).
		First(&completed).Error == nil

	response := fiber.Map{
		"totalModules":     course.TotalModules,
		"completedModules": completedCount,
		"allModulesDone":   services.IsCourseComplete(course.TotalModules, progress),
		"completed":        isCompleted,
	}
	if isCompleted {
		response["score"] = completed.Score
		response["completedAt"] = completed.CompletedAt
		response["certificateUrl"] = completed.CertificateURL
	}

	return c.JSON(response)
}

func (qc *QuizController) createQuiz(quiz *models.Quiz, questions []services.QuestionData) error {
	return qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		for _, q := range questions {
			question := models.QuizQuestion{
				QuizID:        quiz.ID,
				Question:      q.Question,
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
			}
			question.SetOptions(q.Options)
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			quiz.Questions = append(quiz.Questions, question)
		}
		return nil
	})
}

// loadCourse resolves the :courseId param. On failure it has already
// written the response and returns a nil course.
func (qc *QuizController) loadCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := qc.DB.First(&course, courseID).Error; err != nil {
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

func (qc *QuizController) loadCourseModule(c *fiber.Ctx) (*models.Course, int, error) {
	course, status := qc.loadCourse(c)
	if course == nil {
		return nil, 0, status
	}
	moduleID, err := c.ParamsInt("moduleId")
	if err != nil {
		return nil, 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid module ID",
		})
	}
	return course, moduleID, nil
}

// quizPayload strips answers and explanations. Those only come back
// through grading.
func quizPayload(quiz *models.Quiz) fiber.Map {
	questions := make([]fiber.Map, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		questions = append(questions, fiber.Map{
			"id":       q.ID,
			"question": q.Question,
			"options":  q.OptionList(),
		})
	}
	return fiber.Map{
		"id":           quiz.ID,
		"courseId":     quiz.CourseID,
		"moduleId":     quiz.ModuleID,
		"isFinal":      quiz.IsFinal,
		"passingScore": quiz.PassingScore,
		"timeLimit":    quiz.TimeLimit,
		"questions":    questions,
	}
}
