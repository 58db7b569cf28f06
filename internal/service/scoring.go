package service

import (
	"math"
	"strings"

	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
)

// ExamScore は採点結果
type ExamScore struct {
	Correct    int
	Total      int
	Score      int // 0-1000
	Passed     bool
	Percentage float64 // 小数2桁
	Answers    []model.AnswerRecord
}

// ScoreExam は問題バンク全体に対して回答を採点します。
// 未回答は不正解、同じ問題への重複回答は最初のものを採用、バンクにない問題への回答は無視する。
// 同じ入力には常に同じ結果を返す。
func ScoreExam(questions []model.ExamQuestion, answers []model.SubmittedAnswer) ExamScore {
	submitted := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		if _, dup := submitted[a.QuestionID]; dup {
			continue
		}
		submitted[a.QuestionID] = a.Answer
	}

	result := ExamScore{
		Total:   len(questions),
		Answers: make([]model.AnswerRecord, 0, len(questions)),
	}
	for _, q := range questions {
		answer, answered := submitted[q.QuestionID]
		isCorrect := answered && answersMatch(answer, q.CorrectAnswer)
		if isCorrect {
			result.Correct++
		}
		result.Answers = append(result.Answers, model.AnswerRecord{
			QuestionID:    q.QuestionID,
			Answer:        answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
		})
	}

	result.Score = scoreFor(result.Correct, result.Total)
	result.Passed = passedScore(result.Score)
	if result.Total > 0 {
		result.Percentage = math.Round(float64(result.Correct)/float64(result.Total)*10000) / 100
	}
	return result
}

// scoreFor は round_half_up(1000 * correct / total) を整数演算で求める
func scoreFor(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (2*model.ExamMaxScore*correct + total) / (2 * total)
}

func passedScore(score int) bool {
	return score >= model.ExamPassScore
}

func answersMatch(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}
