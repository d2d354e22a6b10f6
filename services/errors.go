package services

import (
	"errors"
	"fmt"
)

// QuestionnaireServiceError is a sentinel failure of the questionnaire service.
// The text is shown to users as-is.
type QuestionnaireServiceError string

func (e QuestionnaireServiceError) Error() string { return string(e) }

const (
	ErrQuestionnaireNotFound QuestionnaireServiceError = "找不到此問卷"
	ErrQuestionnaireClosed   QuestionnaireServiceError = "此問卷已關閉，無法填寫"
	ErrAccessCodeRequired    QuestionnaireServiceError = "請提供存取密碼"
	ErrAccessCodeMismatch    QuestionnaireServiceError = "存取密碼錯誤"
	ErrShortIDExhausted      QuestionnaireServiceError = "無法產生唯一的問卷代碼"
)

// ValidationError reports the first invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorKind classifies service errors for the transport layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// KindOf classifies err. Anything unrecognised is KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var se QuestionnaireServiceError
	if errors.As(err, &se) {
		switch se {
		case ErrAccessCodeRequired:
			return KindValidation
		case ErrQuestionnaireNotFound:
			return KindNotFound
		case ErrQuestionnaireClosed, ErrAccessCodeMismatch:
			return KindForbidden
		case ErrShortIDExhausted:
			return KindConflict
		}
	}
	return KindInternal
}
