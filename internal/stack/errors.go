package stack

import "errors"

// StackError - ошибка конфигурации стека слоёв
type StackError struct {
	Message string
}

func (e *StackError) Error() string {
	return e.Message
}

// NewStackError создаёт ошибку конфигурации
func NewStackError(message string) *StackError {
	return &StackError{Message: message}
}

// Ошибки конфигурации стека
var (
	ErrInvalidLayerHeight = NewStackError("layer height must be positive")
	ErrInvalidWorldHeight = NewStackError("world height must be positive")
	ErrInvalidLayerCount  = NewStackError("layer count must be at least 1")
	ErrInvalidBiomeSize   = NewStackError("biome size must be positive")
	ErrNilConstructor     = NewStackError("layer constructor is nil")
	ErrNilPicker          = NewStackError("biome picker is nil")
	ErrNilLayer           = NewStackError("layer constructor returned nil")
)

// IsInvalidConfig проверяет, является ли ошибка ошибкой конфигурации стека
func IsInvalidConfig(err error) bool {
	var se *StackError
	return errors.As(err, &se)
}
