package models

// SupportLevel is the sentiment a respondent picks.
type SupportLevel string

const (
	SupportLevelVerySupportive    SupportLevel = "very_supportive"
	SupportLevelSupportive        SupportLevel = "supportive"
	SupportLevelNeutral           SupportLevel = "neutral"
	SupportLevelNotSupportive     SupportLevel = "not_supportive"
	SupportLevelVeryNotSupportive SupportLevel = "very_not_supportive"
)

// SupportLevels lists every level from most to least supportive.
var SupportLevels = []SupportLevel{
	SupportLevelVerySupportive,
	SupportLevelSupportive,
	SupportLevelNeutral,
	SupportLevelNotSupportive,
	SupportLevelVeryNotSupportive,
}

func (l SupportLevel) Valid() bool {
	switch l {
	case SupportLevelVerySupportive, SupportLevelSupportive, SupportLevelNeutral,
		SupportLevelNotSupportive, SupportLevelVeryNotSupportive:
		return true
	default:
		return false
	}
}

// QuestionnaireResponse is a single submission. Rows are append-only.
type QuestionnaireResponse struct {
	BaseModel
	QuestionnaireID uint         `gorm:"not null;index" json:"questionnaireId"`
	SupportLevel    SupportLevel `gorm:"type:varchar(32);not null;index" json:"supportLevel"`
	Comment         string       `gorm:"type:text;not null" json:"comment"`
	RespondentName  string       `gorm:"type:varchar(50);not null;default:''" json:"respondentName"`
	ContactInfo     string       `gorm:"type:varchar(100);not null;default:''" json:"contactInfo"`
}

func (QuestionnaireResponse) TableName() string { return "questionnaire_responses" }
