package property

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vango-dev/props/internal/errors"
)

// ListenerFault is panicked by a mutator after a notification round in which
// one or more listeners panicked. Every other listener of that round was
// still notified.
type ListenerFault struct {
	// Kind is the kind of the property whose listeners failed.
	Kind Kind

	// Source is the property that emitted the event.
	Source any

	// Faults holds one error per failed listener, in notification order.
	Faults []error
}

// Error implements the error interface.
func (f *ListenerFault) Error() string {
	msgs := make([]string, len(f.Faults))
	for i, err := range f.Faults {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d %s property listener(s) panicked: %s", len(f.Faults), f.Kind, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual faults to errors.Is and errors.As.
func (f *ListenerFault) Unwrap() []error {
	return f.Faults
}

// AsListenerFault extracts a *ListenerFault from a recovered panic value.
func AsListenerFault(recovered any) (*ListenerFault, bool) {
	err, ok := recovered.(error)
	if !ok {
		return nil, false
	}
	var lf *ListenerFault
	if stderrors.As(err, &lf) {
		return lf, true
	}
	return nil, false
}

// listenerPanic converts a recovered panic value into an L001 error.
func listenerPanic(recovered any, index, total int) error {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("%v", recovered)
	}
	return errors.New("L001").
		WithDetailf("listener %d of %d", index+1, total).
		Wrap(cause)
}
