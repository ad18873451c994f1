package rho

import (
	"fmt"
	"io"
)

// WriteReport prints the table size and both colliding messages with their
// shared truncated hash
func WriteReport(w io.Writer, r *Result) error {
	c := r.Collision
	if _, err := fmt.Fprintf(w, "found collision: %d entries in lookup table\n", r.Meeting.TableSize); err != nil {
		return err
	}
	for _, msg := range [][]byte{c.MessageX, c.MessageY} {
		if _, err := fmt.Fprintf(w, "%s(%s) => %s\n", c.HashName, msg, c.Hash); err != nil {
			return err
		}
	}
	return nil
}
