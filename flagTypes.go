package minext

import (
	"fmt"
	"strconv"
)

// ArrayFloatFlags collects a repeatable float flag.
type ArrayFloatFlags []float64

func (i *ArrayFloatFlags) String() string {
	return fmt.Sprintf("%v", *i)
}

func (i *ArrayFloatFlags) Set(value string) error {
	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*i = append(*i, val)
	return nil
}

// OrDefault returns the collected values, or def when the flag was not given.
func (i ArrayFloatFlags) OrDefault(def ...float64) []float64 {
	if len(i) == 0 {
		return def
	}
	return i
}
