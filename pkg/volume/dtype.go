package volume

import (
	"fmt"
	"math"
	"strings"
)

// DataType is the scalar element type of a volume, fixed for the life of a session.
type DataType uint8

const (
	Bool DataType = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Int64
	Float32
	Float64
)

var typeNames = map[DataType]string{
	Bool:    "bool",
	Uint8:   "uint8",
	Int8:    "int8",
	Uint16:  "uint16",
	Int16:   "int16",
	Uint32:  "uint32",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
}

var typeBytes = map[DataType]int{
	Bool:    1,
	Uint8:   1,
	Int8:    1,
	Uint16:  2,
	Int16:   2,
	Uint32:  4,
	Int32:   4,
	Int64:   8,
	Float32: 4,
	Float64: 8,
}

func (t DataType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", uint8(t))
}

// Bytes returns the storage size of one element.
func (t DataType) Bytes() int {
	return typeBytes[t]
}

// Valid reports whether t is a known element type.
func (t DataType) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseDataType converts a type name such as "int8" into a DataType.
func ParseDataType(s string) (DataType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// Cast converts v to the nearest value representable by t.
// Integer types truncate toward zero and saturate at their limits; bool maps
// any nonzero value to 1.
func (t DataType) Cast(v float64) float64 {
	switch t {
	case Bool:
		if v != 0 {
			return 1
		}
		return 0
	case Uint8:
		return clampInt(v, 0, math.MaxUint8)
	case Int8:
		return clampInt(v, math.MinInt8, math.MaxInt8)
	case Uint16:
		return clampInt(v, 0, math.MaxUint16)
	case Int16:
		return clampInt(v, math.MinInt16, math.MaxInt16)
	case Uint32:
		return clampInt(v, 0, math.MaxUint32)
	case Int32:
		return clampInt(v, math.MinInt32, math.MaxInt32)
	case Int64:
		return clampInt(v, math.MinInt64, maxInt64Float)
	case Float32:
		return float64(float32(v))
	default:
		return v
	}
}

// FromBool returns the representation of a binary value in t.
func (t DataType) FromBool(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// maxInt64Float is the largest float64 that converts to int64 without
// overflow. float64(math.MaxInt64) rounds up to 2^63.
var maxInt64Float = math.Nextafter(math.MaxInt64, 0)

func clampInt(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Trunc(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
