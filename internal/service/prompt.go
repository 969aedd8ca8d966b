package service

import (
	"fmt"
	"strings"

	"lecture-quiz/internal/domain"
)

const generationSystemPrompt = "You are a helpful AI assistant specializing in education. Keep responses concise and focused."

var languageInstructions = map[domain.Language]string{
	domain.LanguageEnglish:    "Create questions in English. All questions, options, and explanations should be in English.",
	domain.LanguageIndonesian: "Buat pertanyaan dalam Bahasa Indonesia. Semua pertanyaan, pilihan jawaban, dan penjelasan harus dalam Bahasa Indonesia.",
}

var languageReminders = map[domain.Language]string{
	domain.LanguageEnglish:    "- All text must be in English",
	domain.LanguageIndonesian: "- All text must be in Bahasa Indonesia",
}

const generationPromptTemplate = `%s

Create %[2]d multiple choice questions based on this lecture content:

%[3]s

%[4]s
Requirements:
1. Generate exactly %[2]d questions
2. Each question must have exactly %[5]d options
3. Only one option should be correct
4. Include a brief explanation for the correct answer
5. IMPORTANT: Vary the position of the correct answer randomly (don't always put it in the same position)
6. Make sure the correct answer is distributed evenly across positions (A, B, C, D)

Return the response in this exact JSON format:
{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctIndex": 0,
      "explanation": "Why this answer is correct"
    }
  ]
}

IMPORTANT:
- The response must be valid JSON
- Each question must follow the exact format above
- The correctIndex must be 0-3 (corresponding to the correct option's position)
- Distribute the correct answers evenly across all positions (0, 1, 2, 3)
%[6]s
`

// buildGenerationPrompt renders the user prompt. content and transcript are
// expected to be truncated already.
func buildGenerationPrompt(content, transcript string, lang domain.Language, count int) string {
	var transcriptSection string
	if transcript != "" {
		transcriptSection = "Additional context from transcript:\n" + transcript + "\n"
	}
	return fmt.Sprintf(generationPromptTemplate,
		languageInstructions[lang],
		count,
		content,
		transcriptSection,
		domain.OptionsPerQuestion,
		languageReminders[lang],
	)
}

// truncateRunes keeps at most limit runes of s. A non-positive limit disables truncation.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// stripThinkTags drops a leading reasoning block emitted by some local models.
func stripThinkTags(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return s[:start] + s[end+len("</think>"):]
}
