package services

import (
	"time"

	"github.com/shitcodegenerator/touching-backend/models"
)

type CreateQuestionnaireResult struct {
	ShortID          string `json:"shortId"`
	QuestionnaireURL string `json:"questionnaireUrl"`
	StatsURL         string `json:"statsUrl"`
	AccessCode       string `json:"accessCode"`
}

type QuestionnaireInfo struct {
	ShortID       string    `json:"shortId"`
	CommunityName string    `json:"communityName"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ToggleResult struct {
	IsActive bool `json:"isActive"`
}

type InitiatorView struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	LineID string `json:"lineId"`
}

type CommentView struct {
	SupportLevel   models.SupportLevel `json:"supportLevel"`
	Comment        string              `json:"comment"`
	RespondentName string              `json:"respondentName"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// QuestionnaireStats is what the access code unlocks. SupportDistribution
// always carries every level.
type QuestionnaireStats struct {
	Initiator           InitiatorView                 `json:"initiator"`
	Community           models.Community              `json:"community"`
	TotalResponses      int64                         `json:"totalResponses"`
	SupportDistribution map[models.SupportLevel]int64 `json:"supportDistribution"`
	LatestComments      []CommentView                 `json:"latestComments"`
}

type QuestionnaireListItem struct {
	ShortID        string           `json:"shortId"`
	Community      models.Community `json:"community"`
	Initiator      InitiatorView    `json:"initiator"`
	IsActive       bool             `json:"isActive"`
	TotalResponses int64            `json:"totalResponses"`
	CreatedAt      time.Time        `json:"createdAt"`
}
