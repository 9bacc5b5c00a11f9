package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"qizz/backend/models"
)

// QuestionData is the validated shape of one generated quiz question.
type QuestionData struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// AIService turns source text into learning material. Every method fails
// soft: upstream errors and malformed responses degrade to deterministic
// fallbacks, never to an error the caller has to surface.
type AIService struct {
	provider  AIProvider
	available bool
	log       func(format string, v ...interface{})
}

func NewAIService(provider AIProvider, logf func(format string, v ...interface{})) *AIService {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	available := provider != nil
	if provider == nil {
		provider = disabledProvider{}
	}
	return &AIService{provider: provider, available: available, log: logf}
}

// Available reports whether a real provider is configured. With none,
// everything still works on fallback content.
func (s *AIService) Available() bool {
	return s.available
}

var (
	jsonFenceRe  = regexp.MustCompile("```json\\s*|```")
	enumPrefixRe = regexp.MustCompile(`^\d+\.?\s*`)
)

// ExtractTopics asks for up to 15 ordered topics. It returns a best-effort
// list; an empty slice signals the caller to try structural fallbacks.
func (s *AIService) ExtractTopics(ctx context.Context, text string) []string {
	prompt := fmt.Sprintf(`You are an expert curriculum designer. From ONLY the text below, extract 15 distinct, ordered topics
suitable for a learning path. Use the original terminology from the text when possible. Avoid generic
placeholders. If the source does not cover a topic, DO NOT fabricate it.

Return ONLY a valid JSON array of strings. No prose, no markdown.

SOURCE TEXT:
"""
%s
"""`, truncate(text, 6000))

	raw, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		s.log("topic extraction failed: %v", err)
		return nil
	}

	raw = strings.TrimSpace(jsonFenceRe.ReplaceAllString(raw, ""))

	var topics []string
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		// Loose parse: the model ignored the JSON instruction.
		for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
			return r == '\n' || r == ',' || r == ';' || r == '•' || r == '-'
		}) {
			if t := strings.TrimSpace(part); t != "" {
				topics = append(topics, t)
			}
		}
	}

	seen := make(map[string]bool)
	var cleaned []string
	for _, t := range topics {
		t = strings.TrimSpace(enumPrefixRe.ReplaceAllString(strings.TrimSpace(t), ""))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		cleaned = append(cleaned, t)
	}
	if len(cleaned) > 15 {
		cleaned = cleaned[:15]
	}
	return cleaned
}

// GenerateModuleContent always returns non-empty prose: implausibly short
// responses and call errors fall back to a templated section.
func (s *AIService) GenerateModuleContent(ctx context.Context, topic, difficulty, learningStyle, contextText string) string {
	prompt := fmt.Sprintf(`Create comprehensive educational content for the topic: "%s"

Difficulty Level: %s
Learning Style: %s
Context (from the student's uploaded material, use this to align terminology and focus; you may ignore irrelevant parts):
"""
%s
"""

Generate detailed, well-structured content that includes an introduction, key concepts,
a detailed explanation with examples, practical applications, and a summary with key takeaways.

Requirements:
- Use clear, simple language appropriate for %s level
- Include specific examples and analogies
- Ensure content is comprehensive (800-1200 words)
- Use headings and bullet points where appropriate

IMPORTANT:
- Use ONLY information that is present in the provided context. Do not invent details.
- If the context lacks specific details for a subsection, acknowledge briefly and keep focus on available content.`,
		topic, difficulty, learningStyle, truncate(contextText, 3500), difficulty)

	content, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		s.log("module content generation failed for %q: %v", topic, err)
		return FallbackModuleContent(topic, difficulty)
	}
	if len(content) < 200 {
		return FallbackModuleContent(topic, difficulty)
	}
	return content
}

// GenerateSimplifiedContent rewrites module content for a student who
// failed the module quiz.
func (s *AIService) GenerateSimplifiedContent(ctx context.Context, originalContent, topic string) string {
	prompt := fmt.Sprintf(`The following content was too difficult for a student to understand. Create a simplified,
more beginner-friendly version of this content.

Topic: %s
Original Content: %s

Requirements:
1. Use simpler language and shorter sentences
2. Add more examples and analogies
3. Break down complex concepts into smaller parts
4. Use bullet points and clear structure

Keep the same core information but make it much more accessible.`,
		topic, truncate(originalContent, 2000))

	content, err := s.provider.Complete(ctx, "", prompt)
	if err != nil || strings.TrimSpace(content) == "" {
		s.log("simplified content generation failed for %q: %v", topic, err)
		return fmt.Sprintf("Let's break down %s into simpler terms. This topic covers important concepts that we'll explore step by step with clear examples.", topic)
	}
	return content
}

// GenerateQuizQuestions requests strict JSON and validates the shape.
// The result always has exactly n questions with exactly 4 options and
// correctAnswer in [0,4), even when the call or the parse fails.
func (s *AIService) GenerateQuizQuestions(ctx context.Context, topic, moduleContent, contextText string, n int) []QuestionData {
	prompt := fmt.Sprintf(`Generate %d high-quality multiple-choice quiz questions based on the following topic, module content, and source material.

Topic: %s
Module Content: %s
Source Material Context: %s

CRITICAL REQUIREMENTS:
1. Questions MUST be directly related to the specific content in the source material
2. Use exact terminology, concepts, and examples from the source material
3. Include exactly 4 options for each question
4. Make incorrect options plausible but clearly distinguishable from correct answers
5. Provide explanations that reference specific content from the source material
6. Mix question types: definition, application, analysis, and synthesis

Return ONLY a valid JSON object in this exact format:
{
  "questions": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Why this answer is correct"
    }
  ]
}

Do not include any text before or after the JSON object.`,
		n, topic, truncate(moduleContent, 2000), truncate(contextText, 3000))

	raw, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		s.log("quiz generation failed for %q: %v", topic, err)
		return FallbackQuestions(topic, n)
	}

	questions, ok := parseQuestions(raw, topic)
	if !ok {
		s.log("quiz generation returned malformed JSON for %q", topic)
		return FallbackQuestions(topic, n)
	}

	// Pad or trim to exactly n.
	if len(questions) < n {
		questions = append(questions, FallbackQuestions(topic, n-len(questions))...)
	}
	return questions[:n]
}

// GenerateFinalQuiz builds a course-wide exam over all topics.
func (s *AIService) GenerateFinalQuiz(ctx context.Context, topics []string, n int) []QuestionData {
	prompt := fmt.Sprintf(`Generate a comprehensive final exam with %d multiple-choice questions covering all the topics from this course.

Course Topics: %s

Requirements:
1. Include questions from all major topics
2. Mix difficulty levels (60%% intermediate, 40%% advanced)
3. Test both knowledge and application
4. Include scenario-based questions
5. Provide explanations for answers

Return ONLY a valid JSON object in this exact format:
{
  "questions": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Why this answer is correct"
    }
  ]
}`, n, strings.Join(topics, ", "))

	subject := "the course material"
	if len(topics) > 0 {
		subject = topics[0]
	}

	raw, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		s.log("final quiz generation failed: %v", err)
		return FallbackQuestions(subject, n)
	}

	questions, ok := parseQuestions(raw, subject)
	if !ok {
		return FallbackQuestions(subject, n)
	}
	if len(questions) < n {
		questions = append(questions, FallbackQuestions(subject, n-len(questions))...)
	}
	return questions[:n]
}

// AnalyzeLearningProgress produces feedback for a graded quiz.
func (s *AIService) AnalyzeLearningProgress(ctx context.Context, userAnswers, correctAnswers []int, topic string) string {
	correct := 0
	for i, a := range userAnswers {
		if i < len(correctAnswers) && a == correctAnswers[i] {
			correct++
		}
	}

	prompt := fmt.Sprintf(`Analyze the student's quiz performance and provide personalized feedback.

Topic: %s
Student's performance: %d/%d correct

Provide encouraging feedback, areas that need improvement, suggestions for better
understanding, and whether they should proceed or review the material.
Keep the feedback positive and constructive.`, topic, correct, len(userAnswers))

	feedback, err := s.provider.Complete(ctx, "", prompt)
	if err != nil || strings.TrimSpace(feedback) == "" {
		return "Great effort! Continue practicing to improve your understanding."
	}
	return feedback
}

// GenerateRelatedRoadmaps builds follow-on learning paths from the course
// topics, falling back to a deterministic three-phase roadmap.
func (s *AIService) GenerateRelatedRoadmaps(ctx context.Context, topics []string, sourceText string) []models.GeneratedRoadmap {
	prompt := fmt.Sprintf(`Create a comprehensive learning roadmap based on these topics: %s

Source Context: %s

Generate a structured roadmap with clear phases (Foundation, Intermediate, Advanced),
specific topics for each phase, learning objectives, estimated time per phase, and prerequisites.

Return ONLY a valid JSON object in this format:
{
  "title": "Learning Path Title",
  "description": "Detailed description",
  "phases": [
    {
      "name": "Foundation",
      "description": "Phase description",
      "topics": ["Topic 1", "Topic 2"],
      "duration": "2-3 weeks",
      "objectives": ["Objective 1"],
      "prerequisites": ["Prerequisite 1"]
    }
  ],
  "totalDuration": "8-12 weeks",
  "difficulty": "intermediate",
  "learningOutcomes": ["Outcome 1"],
  "nextSteps": ["Step 1"]
}`, strings.Join(topics, ", "), truncate(sourceText, 2000))

	raw, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		s.log("roadmap generation failed: %v", err)
		return FallbackRoadmaps(topics)
	}

	raw = strings.TrimSpace(jsonFenceRe.ReplaceAllString(raw, ""))
	var roadmap models.GeneratedRoadmap
	if err := json.Unmarshal([]byte(raw), &roadmap); err != nil || roadmap.Title == "" {
		return FallbackRoadmaps(topics)
	}
	return []models.GeneratedRoadmap{roadmap}
}

// ChatResponse answers a student question, optionally grounded in course
// material.
func (s *AIService) ChatResponse(ctx context.Context, question, courseContext string, topics []string) string {
	prompt := fmt.Sprintf(`The student asked: "%s"

Course Context:
%s

Related Topics:
%s

Please give a clear, helpful, and student-friendly explanation.`,
		question, truncate(courseContext, 4000), strings.Join(topics, ", "))

	answer, err := s.provider.Complete(ctx, "You are a helpful educational AI assistant.", prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		return "Sorry, I'm having trouble generating a response right now."
	}
	return answer
}

// SuggestedQuestions proposes study questions for a course.
func (s *AIService) SuggestedQuestions(ctx context.Context, topics []string) []string {
	prompt := fmt.Sprintf(`Generate 5 suggested student questions for studying based on these topics:
%s

Return one question per line, no numbering.`, strings.Join(topics, ", "))

	raw, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		return []string{"Could not generate suggested questions at the moment."}
	}

	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(enumPrefixRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			questions = append(questions, line)
		}
	}
	if len(questions) == 0 {
		return []string{"Could not generate suggested questions at the moment."}
	}
	if len(questions) > 5 {
		questions = questions[:5]
	}
	return questions
}

// parseQuestions is the strict parse-or-fallback boundary for LLM quiz
// output. It reports ok=false for anything that is not a questions object;
// individual fields inside an otherwise well-formed question are coerced to
// safe defaults.
func parseQuestions(raw, topic string) ([]QuestionData, bool) {
	raw = strings.TrimSpace(jsonFenceRe.ReplaceAllString(raw, ""))

	var payload struct {
		Questions []QuestionData `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	if len(payload.Questions) == 0 {
		return nil, false
	}

	validated := make([]QuestionData, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if q.Question == "" {
			q.Question = fmt.Sprintf("Question %d about %s?", i+1, topic)
		}
		if len(q.Options) != 4 {
			q.Options = []string{"Option A", "Option B", "Option C", "Option D"}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= 4 {
			q.CorrectAnswer = 0
		}
		if q.Explanation == "" {
			q.Explanation = "This is the correct answer based on the module content."
		}
		validated = append(validated, q)
	}
	return validated, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
