// Package options checks mutually exclusive inputs.
package options

import "fmt"

// ExactlyOne returns an error unless exactly one of set is true. The
// error names the accepted inputs and how many were given.
func ExactlyOne(names string, set ...bool) error {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("exactly one of %s must be provided (got %d)", names, n)
	}
	return nil
}
