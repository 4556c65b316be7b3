package pkgnumber

import (
	"strconv"
	"time"

	"mailroom/internal/pkg/errs"
)

const (
	// MinNumber is the smallest number printed on a label.
	MinNumber = 1
	// MaxNumber is the largest number printed on a label.
	MaxNumber = 999
	// Capacity is the number of packages a mailroom can hold on the shelf at once.
	Capacity = MaxNumber - MinNumber + 1
)

// Number is a package number in [MinNumber, MaxNumber]. The zero value is invalid.
type Number struct {
	value int
}

// NewNumber validates v against the pool bounds. Values coming from callers or
// storage always pass through here.
func NewNumber(v int) (Number, error) {
	if v < MinNumber || v > MaxNumber {
		return Number{}, errs.NewValueIsOutOfRangeError("package number", v, MinNumber, MaxNumber)
	}
	return Number{value: v}, nil
}

// MustNumber is NewNumber for constants and tests.
func MustNumber(v int) Number {
	n, err := NewNumber(v)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Number) Int() int {
	return n.value
}

func (n Number) String() string {
	return strconv.Itoa(n.value)
}

func (n Number) IsZero() bool {
	return n.value == 0
}

func (n Number) Validate() error {
	if n.IsZero() {
		return errs.NewValueIsRequiredError("package number")
	}
	return nil
}

// Reservation is an in-use number and the moment it was claimed.
type Reservation struct {
	Number     Number
	ReservedAt time.Time
}
