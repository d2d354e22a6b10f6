package models

import "gorm.io/datatypes"

// Community identifies the housing development a questionnaire is about.
type Community struct {
	County   string `json:"county"`
	District string `json:"district"`
	Name     string `json:"name"`
}

// DisplayName joins the three parts without a separator, e.g. "台北市大安區測試社區".
func (c Community) DisplayName() string {
	return c.County + c.District + c.Name
}

// Questionnaire is one community-support campaign. ShortID is the public
// handle; AccessCode gates the statistics view.
type Questionnaire struct {
	BaseModel
	ShortID       string                        `gorm:"type:varchar(8);uniqueIndex;not null" json:"shortId"`
	AccessCode    string                        `gorm:"type:varchar(6);not null" json:"-"`
	InitiatorName string                        `gorm:"type:varchar(50);not null" json:"initiatorName"`
	Phone         string                        `gorm:"type:varchar(20);not null;default:''" json:"phone"`
	LineID        string                        `gorm:"type:varchar(100);not null;default:''" json:"lineId"`
	Community     datatypes.JSONType[Community] `gorm:"not null" json:"community"`
	IsActive      bool                          `gorm:"not null;default:true;index" json:"isActive"`
}

func (Questionnaire) TableName() string { return "questionnaires" }
