package services

import (
	"strings"

	"github.com/saeid-a/CoachMatchBack/internal/models"
)

const (
	geneticsCap   = 15
	medicalCap    = 25
	metabolismCap = 20
	stressCap     = 20
	lifestyleCap  = 20
)

// CalculateRiskScore turns quiz answers into a score in [0, 100]. When a
// question is answered more than once the last answer counts; unknown
// questions and values contribute nothing.
func CalculateRiskScore(answers []models.QuizAnswer) int {
	byQuestion := make(map[string]models.Answer, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer.Answer
	}

	score := geneticsScore(byQuestion) +
		medicalScore(byQuestion) +
		metabolismScore(byQuestion) +
		stressScore(byQuestion) +
		lifestyleScore(byQuestion)

	return clamp(score, 0, 100)
}

func geneticsScore(answers map[string]models.Answer) int {
	score := 0

	switch textAnswer(answers, "family_history") {
	case "yes", "maternal", "paternal":
		score += 15
	case "both":
		score += 20
	}

	if age, ok := answers["age"].Number(); ok {
		switch {
		case age >= 40:
			score += 5
		case age >= 30:
			score += 3
		case age >= 25:
			score += 2
		}
	}

	return min(geneticsCap, score)
}

func medicalScore(answers map[string]models.Answer) int {
	answer := answers["medical_history"]
	score := 0

	if conditions, ok := answer.List(); ok {
		for _, condition := range conditions {
			score += medicalConditionWeight(condition)
		}
	} else if condition, ok := answer.Text(); ok {
		score += medicalConditionWeight(condition)
	}

	return min(medicalCap, score)
}

func medicalConditionWeight(condition string) int {
	switch strings.ToLower(condition) {
	case "pcos", "polycystic ovary syndrome":
		return 10
	case "thyroid", "hypothyroidism", "hyperthyroidism":
		return 8
	case "diabetes":
		return 7
	case "anaemia", "anemia":
		return 6
	case "autoimmune":
		return 8
	default:
		return 0
	}
}

func metabolismScore(answers map[string]models.Answer) int {
	score := 0

	switch textAnswer(answers, "weight_concern") {
	case "rapid_gain", "difficulty_losing":
		score += 10
	case "fluctuating":
		score += 5
	}

	switch textAnswer(answers, "digestion") {
	case "poor", "irregular":
		score += 8
	case "moderate":
		score += 4
	}

	vitamins := answers["vitamin_deficiency"]
	if list, ok := vitamins.List(); ok {
		if len(list) > 0 {
			score += min(10, 3*len(list))
		}
	} else if text, ok := vitamins.Text(); ok && (text == "yes" || text == "multiple") {
		score += 10
	}

	return min(metabolismCap, score)
}

func stressScore(answers map[string]models.Answer) int {
	score := 0

	switch textAnswer(answers, "stress_level") {
	case "very_high", "extreme":
		score += 20
	case "high":
		score += 15
	case "moderate":
		score += 8
	case "low":
		score += 3
	}

	switch textAnswer(answers, "sleep_quality") {
	case "poor", "insomnia":
		score += 5
	case "moderate":
		score += 2
	}

	switch textAnswer(answers, "work_life_balance") {
	case "poor", "none":
		score += 5
	}

	return min(stressCap, score)
}

func lifestyleScore(answers map[string]models.Answer) int {
	score := 0

	switch textAnswer(answers, "diet_quality") {
	case "poor", "junk_food":
		score += 8
	case "moderate":
		score += 4
	}

	switch textAnswer(answers, "exercise") {
	case "none", "rarely":
		score += 6
	case "occasional":
		score += 3
	}

	hairCare := answers["hair_care_practices"]
	if hairCare.Kind() == models.AnswerKindList {
		if hairCare.Contains("excessive_heat") || hairCare.Contains("chemical_treatments") {
			score += 4
		}
		if hairCare.Contains("tight_hairstyles") {
			score += 2
		}
	}

	switch textAnswer(answers, "environment") {
	case "polluted", "hard_water":
		score += 3
	}

	return min(lifestyleCap, score)
}

// textAnswer returns the text value for questionID, or "" when the question
// is unanswered or answered with a list or number.
func textAnswer(answers map[string]models.Answer, questionID string) string {
	text, _ := answers[questionID].Text()
	return text
}

func clamp(value, lower, upper int) int {
	return max(lower, min(upper, value))
}
