// internal/fetch/fetch.go
//
// Loading-state wrappers for async producers, shaped for the bubbletea
// message loop: Start returns a tea.Cmd running the producer off the event
// loop, and Resolve applies the tagged result back on it. Each in-flight
// request carries a generation number; a result from a superseded request is
// discarded so the last *started* fetch wins, not the last to resolve.

package fetch

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/catalystgrid/catalyst/internal/api"
)

const genericErrMsg = "an unexpected error occurred"

// Result is the message a Loader or Mutator command produces.
type Result[T any] struct {
	gen  uint64
	data T
	err  error
}

// Loader tracks one fetched value for a view: the data, whether a request is
// in flight, and the last error as display text. On failure Data keeps its
// prior value so the view can keep rendering stale-but-valid content.
type Loader[T any] struct {
	Data    *T
	Loading bool
	Err     string

	gen uint64
}

// Start begins a fetch and returns the command that runs it. Starting a new
// fetch supersedes any outstanding one.
func (l *Loader[T]) Start(producer func() (T, error)) tea.Cmd {
	l.Loading = true
	l.Err = ""
	l.gen++
	gen := l.gen
	return func() tea.Msg {
		v, err := producer()
		return Result[T]{gen: gen, data: v, err: err}
	}
}

// Resolve applies a result message. It reports false for stale results,
// which leave the loader untouched.
func (l *Loader[T]) Resolve(msg Result[T]) bool {
	if msg.gen != l.gen {
		return false
	}
	l.Loading = false
	if msg.err != nil {
		l.Err = errText(msg.err)
		return true
	}
	data := msg.data
	l.Data = &data
	return true
}

// Mutator tracks an on-demand call (accept job, withdraw, save settings).
type Mutator[T any] struct {
	Loading bool
	Err     string

	gen uint64
}

// Mutate invokes fn off the event loop and tags the result.
func (m *Mutator[T]) Mutate(fn func() (T, error)) tea.Cmd {
	m.Loading = true
	m.Err = ""
	m.gen++
	gen := m.gen
	return func() tea.Msg {
		v, err := fn()
		return Result[T]{gen: gen, data: v, err: err}
	}
}

// Resolve applies a mutation result, returning the payload or nil on
// failure. Stale results return (nil, false).
func (m *Mutator[T]) Resolve(msg Result[T]) (*T, bool) {
	if msg.gen != m.gen {
		return nil, false
	}
	m.Loading = false
	if msg.err != nil {
		m.Err = errText(msg.err)
		return nil, true
	}
	data := msg.data
	return &data, true
}

// ClearErr drops the captured error text.
func (m *Mutator[T]) ClearErr() { m.Err = "" }

// Deps is a shallow-compared dependency list. Pages re-start their loader
// when Changed reports true for the inputs that feed the producer.
type Deps []any

// Changed reports whether the two lists differ element-wise.
func (d Deps) Changed(other Deps) bool {
	if len(d) != len(other) {
		return true
	}
	for i := range d {
		if d[i] != other[i] {
			return true
		}
	}
	return false
}

func errText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return genericErrMsg
}
