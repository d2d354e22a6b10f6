package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CommunityInput is the community block of a create request.
type CommunityInput struct {
	County   string `json:"county" validate:"required"`
	District string `json:"district" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// CreateQuestionnaireInput is the create request body. Field order is the
// order in which problems are reported.
type CreateQuestionnaireInput struct {
	InitiatorName string         `json:"initiatorName" validate:"required,max=50"`
	Community     CommunityInput `json:"community"`
	Phone         string         `json:"phone" validate:"required_without=LineID,max=20"`
	LineID        string         `json:"lineId" validate:"max=100"`
}

func (in *CreateQuestionnaireInput) normalize() {
	in.InitiatorName = strings.TrimSpace(in.InitiatorName)
	in.Community.County = strings.TrimSpace(in.Community.County)
	in.Community.District = strings.TrimSpace(in.Community.District)
	in.Community.Name = strings.TrimSpace(in.Community.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.LineID = strings.TrimSpace(in.LineID)
}

// Validate returns nil or a *ValidationError for the first failing field.
func (in *CreateQuestionnaireInput) Validate() error {
	in.normalize()
	return firstValidationError(validate.Struct(in), false)
}

// SubmitResponseInput is the response request body. Missing fields are
// reported before an unknown support level, which comes before length limits.
type SubmitResponseInput struct {
	SupportLevel   string `json:"supportLevel" validate:"required,oneof=very_supportive supportive neutral not_supportive very_not_supportive"`
	Comment        string `json:"comment" validate:"required,max=500"`
	RespondentName string `json:"respondentName" validate:"max=50"`
	ContactInfo    string `json:"contactInfo" validate:"max=100"`
}

func (in *SubmitResponseInput) normalize() {
	in.SupportLevel = strings.TrimSpace(in.SupportLevel)
	in.Comment = strings.TrimSpace(in.Comment)
	in.RespondentName = strings.TrimSpace(in.RespondentName)
	in.ContactInfo = strings.TrimSpace(in.ContactInfo)
}

// Validate returns nil or a *ValidationError for the most important failure.
func (in *SubmitResponseInput) Validate() error {
	in.normalize()
	return firstValidationError(validate.Struct(in), true)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var validationMessages = map[string]string{
	"initiatorName.required":      "請填寫所有必填欄位",
	"initiatorName.max":           "發起人姓名不能超過50個字元",
	"community.county.required":   "請填寫所有必填欄位",
	"community.district.required": "請填寫所有必填欄位",
	"community.name.required":     "請填寫所有必填欄位",
	"phone.required_without":      "請提供手機號碼或 LINE ID",
	"phone.max":                   "手機號碼不能超過20個字元",
	"lineId.max":                  "LINE ID不能超過100個字元",

	"supportLevel.required": "請選擇您的支持程度",
	"supportLevel.oneof":    "支持程度選項無效",
	"comment.required":      "請填寫您的意見",
	"comment.max":           "意見不能超過500個字元",
	"respondentName.max":    "暱稱不能超過50個字元",
	"contactInfo.max":       "聯絡方式不能超過100個字元",
}

const defaultValidationMessage = "輸入格式錯誤"

func firstValidationError(err error, requiredFirst bool) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: defaultValidationMessage}
	}

	picked := verrs[0]
	if requiredFirst {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				picked = fe
				break
			}
		}
	}

	field := picked.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	msg, ok := validationMessages[field+"."+picked.Tag()]
	if !ok {
		msg = defaultValidationMessage
	}
	return &ValidationError{Field: field, Message: msg}
}
