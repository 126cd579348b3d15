package worker

import (
	"fmt"

	"github.com/hearthkit/hearth/pkg/models"
)

// ProtocolViolationError reports a broken state-machine invariant:
// a second outstanding collaboration request, a worker activated with
// no matching branch, or a resume with no answer to consume. It is
// fatal for the turn; the core aborts rather than continue with
// inconsistent state.
type ProtocolViolationError struct {
	// Worker is the device whose activation detected the violation,
	// empty when detected by the orchestrator.
	Worker models.DeviceID
	// Detail describes the broken invariant.
	Detail string
}

func (e *ProtocolViolationError) Error() string {
	if e.Worker == "" {
		return fmt.Sprintf("protocol violation: %s", e.Detail)
	}
	return fmt.Sprintf("protocol violation at %s: %s", e.Worker, e.Detail)
}

func violation(worker models.DeviceID, format string, args ...interface{}) error {
	return &ProtocolViolationError{Worker: worker, Detail: fmt.Sprintf(format, args...)}
}
