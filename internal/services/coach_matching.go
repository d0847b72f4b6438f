package services

import (
	"strings"

	"github.com/saeid-a/CoachMatchBack/internal/models"
	"golang.org/x/text/language"
)

const (
	seniorThreshold = 61
	midThreshold    = 31
)

// RequiredSeniority maps a risk score onto the minimum coach tier.
func RequiredSeniority(riskScore int) (models.SeniorityLevel, error) {
	if riskScore < 0 || riskScore > 100 {
		return "", ErrRiskScoreOutOfRange
	}
	switch {
	case riskScore >= seniorThreshold:
		return models.SenioritySenior, nil
	case riskScore >= midThreshold:
		return models.SeniorityMid, nil
	default:
		return models.SeniorityJunior, nil
	}
}

// MatchCoaches keeps coaches at or above the tier required for riskScore and,
// when lang is set, those who speak it. The input order is preserved.
func MatchCoaches(coaches []models.Coach, riskScore int, lang string) ([]models.Coach, error) {
	required, err := RequiredSeniority(riskScore)
	if err != nil {
		return nil, err
	}

	lang = strings.TrimSpace(lang)
	matched := make([]models.Coach, 0, len(coaches))
	for _, coach := range coaches {
		if coach.SeniorityLevel.Rank() < required.Rank() {
			continue
		}
		if lang != "" && !speaksLanguage(coach.Languages, lang) {
			continue
		}
		matched = append(matched, coach)
	}
	return matched, nil
}

func speaksLanguage(spoken []string, want string) bool {
	for _, candidate := range spoken {
		if sameLanguage(candidate, want) {
			return true
		}
	}
	return false
}

// sameLanguage compares BCP-47 tags by base language, so "en-US" matches
// "en". Tags that do not parse fall back to a case-insensitive comparison.
func sameLanguage(a, b string) bool {
	tagA, errA := language.Parse(strings.TrimSpace(a))
	tagB, errB := language.Parse(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	baseA, _ := tagA.Base()
	baseB, _ := tagB.Base()
	return baseA == baseB
}
