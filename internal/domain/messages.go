package domain

import "fmt"

// FeedbackVerdict is the headline shown right after an answer.
func FeedbackVerdict(lang Language, correct bool) string {
	switch {
	case lang == LanguageIndonesian && correct:
		return "Benar!"
	case lang == LanguageIndonesian:
		return "Salah!"
	case correct:
		return "Correct!"
	default:
		return "Incorrect!"
	}
}

func QuestionHeading(lang Language, current, total int) string {
	if lang == LanguageIndonesian {
		return fmt.Sprintf("Pertanyaan %d dari %d", current+1, total)
	}
	return fmt.Sprintf("Question %d of %d", current+1, total)
}

func ResultHeadline(lang Language, perfect bool) string {
	switch {
	case lang == LanguageIndonesian && perfect:
		return "Nilai Sempurna!"
	case lang == LanguageIndonesian:
		return "Terus Berusaha!"
	case perfect:
		return "Perfect Score!"
	default:
		return "Keep Trying!"
	}
}

func ResultSummary(lang Language, correct, total int) string {
	if lang == LanguageIndonesian {
		return fmt.Sprintf("Anda menjawab %d dari %d pertanyaan dengan benar", correct, total)
	}
	return fmt.Sprintf("You got %d out of %d questions correct", correct, total)
}

func ResultAdvice(lang Language, perfect bool, total int) string {
	switch {
	case lang == LanguageIndonesian && perfect:
		return "Selamat! Anda telah menguasai materi kuliah ini."
	case lang == LanguageIndonesian:
		return fmt.Sprintf("Anda perlu menjawab semua %d pertanyaan dengan benar untuk lulus. Coba lagi!", total)
	case perfect:
		return "Congratulations! You have mastered this lecture."
	default:
		return fmt.Sprintf("You need all %d questions correct to pass. Try again!", total)
	}
}
