package service

import "fmt"

// коды бизнес-ошибок: транспортный слой переводит их в HTTP-статусы
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeForbidden    = "FORBIDDEN"
	CodeInvalidState = "INVALID_STATE"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeDuplicate    = "DUPLICATE"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key    string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:    key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	BusErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		BusErr.Details[detail.Key] = detail.Payload
	}

	return BusErr
}

func NewNotFound(resource string, id any) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewForbidden(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeForbidden,
		Message: message,
		Details: map[string]any{},
	}
}

func NewInvalidState(message string, details ...Detail) *BusinessError {
	return NewBusinessError(CodeInvalidState, message, details...)
}

func NewUnauthorized(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeUnauthorized,
		Message: message,
		Details: map[string]any{},
	}
}

func NewDuplicate(resource string, details ...Detail) *BusinessError {
	return NewBusinessError(CodeDuplicate, fmt.Sprintf("%s уже существует", resource), details...)
}
