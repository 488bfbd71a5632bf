package service

import (
	"strings"

	"noise-sentinel/internal/model"
)

type verdictRule struct {
	keywords []string
	status   model.CaseStatus
}

// Order matters: "not guilty" has to win over "guilty".
var verdictRules = []verdictRule{
	{keywords: []string{"dismiss", "withdraw"}, status: model.CaseStatusDismissed},
	{keywords: []string{"not guilty", "acquit"}, status: model.CaseStatusAcquitted},
	{keywords: []string{"guilty", "convict", "fine imposed"}, status: model.CaseStatusConvicted},
}

var verdictOutcomes = map[model.CaseStatus]bool{
	model.CaseStatusConvicted: true,
	model.CaseStatusAcquitted: true,
	model.CaseStatusDismissed: true,
	model.CaseStatusClosed:    true,
}

// InferStatus derives the case status from free-text verdict wording. Text matching no
// rule closes the case.
func InferStatus(verdict string) model.CaseStatus {
	text := strings.Join(strings.Fields(strings.ToLower(verdict)), " ")
	for _, rule := range verdictRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.status
			}
		}
	}
	return model.CaseStatusClosed
}
