package parallel

import (
	"errors"
	"sync"
)

// ErrorCollector accumulates errors reported by concurrent tasks.
// The zero value is ready to use.
type ErrorCollector struct {
	mu   sync.Mutex
	errs []error
}

// SetError records err. Nil errors are ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

// Err returns the recorded errors joined in arrival order, or nil.
// A single error is returned as is.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch len(c.errs) {
	case 0:
		return nil
	case 1:
		return c.errs[0]
	default:
		return errors.Join(c.errs...)
	}
}

// Len returns the number of recorded errors.
func (c *ErrorCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}
