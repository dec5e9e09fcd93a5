package errors_test

import (
	"fmt"

	"github.com/agentstation/mnemosyne/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := &errors.NotFoundError{
		Resource: "library",
		ID:       "films",
	}

	if errors.IsNotFound(err) {
		fmt.Println("Library not found")
	}

	// Output: Library not found
}

// Example_outOfRange demonstrates reporting a bad result index.
func Example_outOfRange() {
	err := errors.NewOutOfRangeError("result set", 4, 2)
	if errors.IsOutOfRange(err) {
		fmt.Println(err)
	}

	// Output: no entry 4: result set has entries 0-1
}
