package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest        ErrorCode = "BAD_REQUEST"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Fields     map[string]string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал с sentinel-значениями.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation создаёт ошибку валидации с картой ошибок по полям.
func Validation(message string, fields map[string]string) *AppError {
	err := New(ErrCodeValidation, message)
	if len(fields) > 0 {
		err.Fields = fields
	}
	return err
}

// InvalidTransition сообщает о недопустимом переходе статуса сущности.
func InvalidTransition(entity, from, to string) *AppError {
	return New(ErrCodeInvalidTransition, fmt.Sprintf("%s: переход из статуса %q в %q недопустим", entity, from, to))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

func IsInvalidTransition(err error) bool {
	return CodeOf(err) == ErrCodeInvalidTransition
}

var (
	ErrJobNotFound         = New(ErrCodeNotFound, "вакансия не найдена")
	ErrApplicationNotFound = New(ErrCodeNotFound, "отклик не найден")
	ErrContractNotFound    = New(ErrCodeNotFound, "контракт не найден")
	ErrPaymentNotFound     = New(ErrCodeNotFound, "платёж не найден")
	ErrEmployerNotFound    = New(ErrCodeNotFound, "профиль работодателя не найден")
	ErrTalentNotFound      = New(ErrCodeNotFound, "профиль исполнителя не найден")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden           = New(ErrCodeForbidden, "недостаточно прав")

	ErrDuplicateApplication    = New(ErrCodeConflict, "вы уже откликнулись на эту вакансию")
	ErrDuplicateActiveContract = New(ErrCodeConflict, "для этой пары вакансия/исполнитель уже есть активный контракт")
	ErrNotWithdrawable         = New(ErrCodeConflict, "отозвать можно только отклик в статусе pending или reviewed")
	ErrNotRefundable           = New(ErrCodeConflict, "вернуть можно только завершённый платёж")
)
