package services

import (
	"fmt"

	"qizz/backend/models"
)

// FallbackModuleContent is the deterministic stand-in used when content
// generation fails or comes back implausibly short.
func FallbackModuleContent(topic, difficulty string) string {
	return fmt.Sprintf(`# %[1]s

## Introduction
This module provides a comprehensive overview of %[1]s. Understanding this topic is essential for building a strong foundation in your learning journey.

## Key Concepts
- **Definition**: %[1]s refers to the fundamental principles and practices in this area
- **Importance**: This topic is crucial for understanding advanced concepts
- **Applications**: Used in various real-world scenarios

## Detailed Explanation
%[1]s involves several important aspects that we'll explore in detail:

1. **Core Principles**: The fundamental ideas that govern this topic
2. **Key Components**: The main elements that make up this subject
3. **Relationships**: How different parts connect and interact

## Practical Applications
Understanding %[1]s helps you:
- Apply knowledge in real-world situations
- Solve problems more effectively
- Make informed decisions
- Build upon this knowledge for advanced topics

## Summary
Key takeaways from this module:
- %[1]s is fundamental to understanding this subject area
- The concepts covered here provide a solid foundation at the %[2]s level
- Practice and application will help reinforce your understanding
- This knowledge prepares you for more advanced topics

## Next Steps
After completing this module, you should be able to:
- Explain the basic concepts of %[1]s
- Identify practical applications
- Apply this knowledge in various contexts
- Move confidently to the next learning module`, topic, difficulty)
}

// fallbackQuestionTemplates is the fixed pool cycled to synthesize
// well-formed questions when generation fails.
var fallbackQuestionTemplates = []struct {
	question    string
	options     [4]string
	explanation string
}{
	{
		question: "What is the primary purpose of %s?",
		options: [4]string{
			"To provide a structured approach to understanding complex concepts",
			"To simplify advanced topics for beginners",
			"To create visual representations of data",
			"To automate repetitive tasks",
		},
		explanation: "%s serves as a structured approach to understanding complex concepts, providing a foundation for deeper learning.",
	},
	{
		question: "Which of the following best describes %s?",
		options: [4]string{
			"A comprehensive framework for systematic learning",
			"A quick reference guide for experts",
			"A collection of random facts",
			"A simple dictionary definition",
		},
		explanation: "%s is best described as a comprehensive framework that enables systematic learning and understanding.",
	},
	{
		question: "How does %s contribute to learning?",
		options: [4]string{
			"By providing clear structure and progression",
			"By offering quick shortcuts to mastery",
			"By replacing the need for practice",
			"By memorizing facts without understanding",
		},
		explanation: "%s contributes to learning by providing clear structure and logical progression through concepts.",
	},
	{
		question: "What makes %s effective for students?",
		options: [4]string{
			"Its systematic approach and clear explanations",
			"Its ability to skip difficult concepts",
			"Its focus on memorization only",
			"Its avoidance of practical applications",
		},
		explanation: "%s is effective because it uses a systematic approach with clear explanations that help students understand.",
	},
	{
		question: "In what way does %s support learning objectives?",
		options: [4]string{
			"By breaking down complex topics into manageable parts",
			"By providing all answers without thinking",
			"By focusing only on theoretical knowledge",
			"By avoiding real-world applications",
		},
		explanation: "%s supports learning objectives by breaking down complex topics into manageable, understandable parts.",
	},
}

// FallbackQuestions returns exactly n well-formed questions cycled from the
// template pool. The correct answer is always index 0 in the pool.
func FallbackQuestions(topic string, n int) []QuestionData {
	questions := make([]QuestionData, 0, n)
	for i := 0; i < n; i++ {
		tmpl := fallbackQuestionTemplates[i%len(fallbackQuestionTemplates)]
		questions = append(questions, QuestionData{
			Question:      fmt.Sprintf(tmpl.question, topic),
			Options:       []string{tmpl.options[0], tmpl.options[1], tmpl.options[2], tmpl.options[3]},
			CorrectAnswer: 0,
			Explanation:   fmt.Sprintf(tmpl.explanation, topic),
		})
	}
	return questions
}

// FallbackRoadmaps builds the deterministic three-phase roadmap used when
// roadmap generation fails.
func FallbackRoadmaps(topics []string) []models.GeneratedRoadmap {
	subject := "Subject"
	if len(topics) > 0 {
		subject = topics[0]
	}

	slice := func(from, to int) []string {
		if from > len(topics) {
			return nil
		}
		if to > len(topics) {
			to = len(topics)
		}
		return topics[from:to]
	}

	return []models.GeneratedRoadmap{{
		Title:       fmt.Sprintf("Advanced %s Learning Path", subject),
		Description: fmt.Sprintf("Continue your learning journey with advanced concepts related to %s", subject),
		Phases: []models.GeneratedRoadmapPhase{
			{
				Name:          "Foundation",
				Description:   "Build fundamental understanding",
				Topics:        slice(0, 3),
				Duration:      "2-3 weeks",
				Objectives:    []string{"Understand basic concepts", "Build foundation knowledge"},
				Prerequisites: []string{"Basic understanding of core concepts"},
			},
			{
				Name:          "Intermediate",
				Description:   "Apply concepts in practical scenarios",
				Topics:        slice(3, 6),
				Duration:      "3-4 weeks",
				Objectives:    []string{"Apply knowledge practically", "Solve intermediate problems"},
				Prerequisites: []string{"Completed Foundation phase"},
			},
			{
				Name:          "Advanced",
				Description:   "Master complex applications and analysis",
				Topics:        slice(6, 9),
				Duration:      "4-5 weeks",
				Objectives:    []string{"Master advanced concepts", "Create complex solutions"},
				Prerequisites: []string{"Completed Intermediate phase"},
			},
		},
		TotalDuration:    "9-12 weeks",
		Difficulty:       "intermediate",
		LearningOutcomes: []string{"Master advanced concepts", "Apply knowledge practically", "Solve complex problems"},
		NextSteps:        []string{"Practice with real-world projects", "Join study groups or communities", "Teach others to reinforce learning"},
	}}
}
