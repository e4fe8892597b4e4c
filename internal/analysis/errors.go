package analysis

import (
	"fmt"

	"github.com/google/uuid"
)

// Kinds of records that can be missing
const (
	KindResume   = "resume"
	KindJob      = "job"
	KindAnalysis = "analysis"
)

// NotFoundError reports that a referenced record does not exist
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InputError reports a request that cannot be analyzed as given
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}
