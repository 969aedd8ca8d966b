package dto

import "lecture-quiz/internal/domain"

// CreateSessionResponse carries a fresh browsing session identifier.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// GenerateQuizRequest is the body of POST /api/lectures/:lectureID/quiz.
// Empty content and transcript mean "use the stored lecture".
type GenerateQuizRequest struct {
	Content    string `json:"content"`
	Transcript string `json:"transcript"`
	Language   string `json:"language"`
}

// SubmitAnswerRequest is the body of POST /api/lectures/:lectureID/quiz/answers.
type SubmitAnswerRequest struct {
	SelectedIndex *int `json:"selected_index"`
}

// QuestionView is the current question without its answer.
type QuestionView struct {
	Index    int      `json:"index"`
	Heading  string   `json:"heading"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizResultView summarizes a completed attempt.
type QuizResultView struct {
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
	Passed         bool   `json:"passed"`
	Headline       string `json:"headline"`
	Summary        string `json:"summary"`
	Advice         string `json:"advice"`
}

// QuizResponse is the learner-facing view of a quiz attempt. Exactly one of
// Question and Result is set.
type QuizResponse struct {
	LectureID       string          `json:"lecture_id"`
	Language        string          `json:"language"`
	TotalQuestions  int             `json:"total_questions"`
	CurrentQuestion int             `json:"current_question"`
	CorrectAnswers  int             `json:"correct_answers"`
	Completed       bool            `json:"completed"`
	Question        *QuestionView   `json:"question,omitempty"`
	Result          *QuizResultView `json:"result,omitempty"`
}

type AnswerFeedbackResponse struct {
	Correct       bool   `json:"correct"`
	Verdict       string `json:"verdict"`
	SelectedIndex int    `json:"selected_index"`
	CorrectIndex  int    `json:"correct_index"`
	Explanation   string `json:"explanation"`
}

type SubmitAnswerResponse struct {
	Feedback      AnswerFeedbackResponse `json:"feedback"`
	Quiz          QuizResponse           `json:"quiz"`
	Finished      bool                   `json:"finished"`
	Passed        bool                   `json:"passed"`
	NextLectureID string                 `json:"next_lecture_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// NewQuizResponse renders state for lectureID.
func NewQuizResponse(lectureID string, state *domain.QuizState) QuizResponse {
	total := len(state.Questions)
	resp := QuizResponse{
		LectureID:       lectureID,
		Language:        string(state.Language),
		TotalQuestions:  total,
		CurrentQuestion: state.CurrentQuestion,
		CorrectAnswers:  state.CorrectAnswers,
		Completed:       state.Completed,
	}
	if state.Completed {
		perfect := state.PerfectScore()
		resp.Result = &QuizResultView{
			CorrectAnswers: state.CorrectAnswers,
			TotalQuestions: total,
			Passed:         state.Passed(),
			Headline:       domain.ResultHeadline(state.Language, perfect),
			Summary:        domain.ResultSummary(state.Language, state.CorrectAnswers, total),
			Advice:         domain.ResultAdvice(state.Language, perfect, total),
		}
		return resp
	}
	q := state.Current()
	resp.Question = &QuestionView{
		Index:    state.CurrentQuestion,
		Heading:  domain.QuestionHeading(state.Language, state.CurrentQuestion, total),
		Question: q.Text,
		Options:  append([]string(nil), q.Options...),
	}
	return resp
}
