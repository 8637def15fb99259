package orientation

import (
	"errors"
	"fmt"

	"morphviewer/pkg/volume"
)

// ErrNotImplemented is returned by view operations that exist only so a UI
// can bind to them.
var ErrNotImplemented = errors.New("not implemented")

// Controller owns the cycle count and the slice index of a session.
type Controller struct {
	cycle Cycle
	index int
}

// NewController starts in acquisition order with the slice index in the
// middle of the last axis.
func NewController(st *volume.State) *Controller {
	return &Controller{index: (st.Shape().Depth() - 1) / 2}
}

// State returns the current cycle count.
func (c *Controller) State() Cycle {
	return c.cycle
}

// SliceIndex returns the index currently viewed.
func (c *Controller) SliceIndex() int {
	return c.index
}

// Range returns the valid slice indices for st.
func (c *Controller) Range(st *volume.State) (lo, hi int) {
	return 0, st.Shape().Depth() - 1
}

// SetSliceIndex moves the view. Out-of-range indices are rejected and the
// previous index is kept.
func (c *Controller) SetSliceIndex(st *volume.State, index int) error {
	_, hi := c.Range(st)
	if index < 0 || index > hi {
		return fmt.Errorf("%w: %d not in [0, %d]", volume.ErrSliceOutOfRange, index, hi)
	}
	c.index = index
	return nil
}

// Cycle rotates the axes of st once and clamps the slice index into the new
// range. The array is replaced in a single step.
func (c *Controller) Cycle(st *volume.State) error {
	next, shape, data := Step(c.cycle, st.Shape(), st.Data())
	if err := st.Replace(shape, data); err != nil {
		return fmt.Errorf("cycle: %w", err)
	}
	c.cycle = next

	_, hi := c.Range(st)
	if c.index > hi {
		c.index = hi
	}
	if c.index < 0 {
		c.index = 0
	}
	return nil
}

// Rotate is reserved for in-plane rotation of the view.
func (c *Controller) Rotate() error {
	return fmt.Errorf("rotate: %w", ErrNotImplemented)
}

// Reset is reserved for restoring the initial view.
func (c *Controller) Reset() error {
	return fmt.Errorf("reset: %w", ErrNotImplemented)
}
