package contract

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrModelInvoke         = errors.New("model invoke failed")
	ErrSchemaViolation     = errors.New("model response violates schema")
	ErrCapabilityNotFound  = errors.New("capability is not registered")
	ErrCapabilityInvoke    = errors.New("capability invoke failed")
	ErrDuplicateCapability = errors.New("capability name already registered")
)
