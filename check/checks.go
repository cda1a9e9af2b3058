package check

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for AlmostEqual and NotAlmostEqual, matching the usual
// "approximately equal" convention for floating point comparisons.
const (
	defaultRelTolerance = 1e-6
	defaultAbsTolerance = 1e-12
)

// Equal checks a == b (deep equality). On failure it logs a soft failure and
// returns false; msg, if non-empty, is appended to the failure message.
//
// All the predicate checks on Recorder follow this contract: the true path
// has no side effects, the false path records exactly one failure.
func (r *Recorder) Equal(a, b interface{}, msg string) bool {
	if assert.ObjectsAreEqual(a, b) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v == %v", a, b), msg)
}

// NotEqual checks a != b (deep inequality).
func (r *Recorder) NotEqual(a, b interface{}, msg string) bool {
	if !assert.ObjectsAreEqual(a, b) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v != %v", a, b), msg)
}

// Same checks that a and b are the same pointer.
func (r *Recorder) Same(a, b interface{}, msg string) bool {
	if samePointers(a, b) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v is %v", a, b), msg)
}

// NotSame checks that a and b are not the same pointer.
func (r *Recorder) NotSame(a, b interface{}, msg string) bool {
	if !samePointers(a, b) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v is not %v", a, b), msg)
}

// True checks that value is true.
func (r *Recorder) True(value bool, msg string) bool {
	if value {
		return true
	}
	return r.logCheckFailure("check value is true", msg)
}

// False checks that value is false.
func (r *Recorder) False(value bool, msg string) bool {
	if !value {
		return true
	}
	return r.logCheckFailure("check value is false", msg)
}

// Nil checks that value is nil, accepting both untyped nil and nil values of
// nillable types (pointers, slices, maps, channels, funcs, interfaces).
func (r *Recorder) Nil(value interface{}, msg string) bool {
	if isNilValue(value) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v is nil", value), msg)
}

// NotNil checks that value is not nil.
func (r *Recorder) NotNil(value interface{}, msg string) bool {
	if !isNilValue(value) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v is not nil", value), msg)
}

// NoError checks that err is nil.
func (r *Recorder) NoError(err error, msg string) bool {
	if err == nil {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check no error, got %q", err.Error()), msg)
}

// Error checks that err is non-nil.
func (r *Recorder) Error(err error, msg string) bool {
	if err != nil {
		return true
	}
	return r.logCheckFailure("check an error occurred", msg)
}

// In checks that container holds value: an element of a slice or array, a key
// of a map, or a substring of a string.
func (r *Recorder) In(value, container interface{}, msg string) bool {
	found, ok := containsElement(container, value)
	if !ok {
		return r.logCheckFailure(
			fmt.Sprintf("check %v in %v (container type %T is not searchable)", value, container, container), msg)
	}
	if found {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v in %v", value, container), msg)
}

// NotIn checks that container does not hold value.
func (r *Recorder) NotIn(value, container interface{}, msg string) bool {
	found, ok := containsElement(container, value)
	if !ok {
		return r.logCheckFailure(
			fmt.Sprintf("check %v not in %v (container type %T is not searchable)", value, container, container), msg)
	}
	if !found {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v not in %v", value, container), msg)
}

// IsType checks that value has the same dynamic type as expected.
func (r *Recorder) IsType(value, expected interface{}, msg string) bool {
	if reflect.TypeOf(value) == reflect.TypeOf(expected) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v has type %T", value, expected), msg)
}

// NotIsType checks that value does not have the same dynamic type as expected.
func (r *Recorder) NotIsType(value, expected interface{}, msg string) bool {
	if reflect.TypeOf(value) != reflect.TypeOf(expected) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v does not have type %T", value, expected), msg)
}

// AlmostEqual checks that a approximately equals b, with the default relative
// and absolute tolerances.
func (r *Recorder) AlmostEqual(a, b float64, msg string) bool {
	return r.almostEqual(a, b, defaultRelTolerance, defaultAbsTolerance, msg)
}

// AlmostEqualTol checks that a approximately equals b within the given
// relative and absolute tolerances: the comparison passes when
// |a-b| <= max(rel*|b|, abs).
func (r *Recorder) AlmostEqualTol(a, b, rel, abs float64, msg string) bool {
	return r.almostEqual(a, b, rel, abs, msg)
}

func (r *Recorder) almostEqual(a, b, rel, abs float64, msg string) bool {
	if approxEqual(a, b, rel, abs) {
		return true
	}
	return r.logCheckFailure(
		fmt.Sprintf("check %v == approx(%v, rel=%v, abs=%v)", a, b, rel, abs), msg)
}

// NotAlmostEqual is the negation of AlmostEqual.
func (r *Recorder) NotAlmostEqual(a, b float64, msg string) bool {
	return r.notAlmostEqual(a, b, defaultRelTolerance, defaultAbsTolerance, msg)
}

// NotAlmostEqualTol is the negation of AlmostEqualTol.
func (r *Recorder) NotAlmostEqualTol(a, b, rel, abs float64, msg string) bool {
	return r.notAlmostEqual(a, b, rel, abs, msg)
}

func (r *Recorder) notAlmostEqual(a, b, rel, abs float64, msg string) bool {
	if !approxEqual(a, b, rel, abs) {
		return true
	}
	return r.logCheckFailure(
		fmt.Sprintf("check %v != approx(%v, rel=%v, abs=%v)", a, b, rel, abs), msg)
}

// Greater checks a > b for values of the same ordered type (integer, float,
// or string).
func (r *Recorder) Greater(a, b interface{}, msg string) bool {
	return r.ordered(a, b, msg, ">", func(cmp int) bool { return cmp > 0 })
}

// GreaterEqual checks a >= b.
func (r *Recorder) GreaterEqual(a, b interface{}, msg string) bool {
	return r.ordered(a, b, msg, ">=", func(cmp int) bool { return cmp >= 0 })
}

// Less checks a < b.
func (r *Recorder) Less(a, b interface{}, msg string) bool {
	return r.ordered(a, b, msg, "<", func(cmp int) bool { return cmp < 0 })
}

// LessEqual checks a <= b.
func (r *Recorder) LessEqual(a, b interface{}, msg string) bool {
	return r.ordered(a, b, msg, "<=", func(cmp int) bool { return cmp <= 0 })
}

func (r *Recorder) ordered(a, b interface{}, msg, op string, pass func(int) bool) bool {
	cmp, ok := compareValues(a, b)
	if !ok {
		return r.logCheckFailure(
			fmt.Sprintf("check %v %s %v (values of type %T and %T are not orderable)", a, op, b, a, b), msg)
	}
	if pass(cmp) {
		return true
	}
	return r.logCheckFailure(fmt.Sprintf("check %v %s %v", a, op, b), msg)
}

// Between checks that value lies between lower and upper. Each bound is
// exclusive unless the corresponding included flag is set.
func (r *Recorder) Between(value, lower, upper interface{}, msg string, lowerIncluded, upperIncluded bool) bool {
	lowOp, highOp := "<", "<"
	if lowerIncluded {
		lowOp = "<="
	}
	if upperIncluded {
		highOp = "<="
	}
	desc := fmt.Sprintf("check %v %s %v %s %v", lower, lowOp, value, highOp, upper)

	cmpLow, okLow := compareValues(lower, value)
	cmpHigh, okHigh := compareValues(value, upper)
	if !okLow || !okHigh {
		return r.logCheckFailure(desc+" (values are not orderable)", msg)
	}

	lowPass := cmpLow < 0 || (lowerIncluded && cmpLow == 0)
	highPass := cmpHigh < 0 || (upperIncluded && cmpHigh == 0)
	if lowPass && highPass {
		return true
	}
	return r.logCheckFailure(desc, msg)
}

func approxEqual(a, b, rel, abs float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= math.Max(rel*math.Abs(b), abs)
}

func isNilValue(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func samePointers(a, b interface{}) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Ptr || vb.Kind() != reflect.Ptr {
		return false
	}
	return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
}

// containsElement reports whether container holds element. ok is false when
// the container is not a searchable kind.
func containsElement(container, element interface{}) (found, ok bool) {
	if container == nil {
		return false, false
	}
	cv := reflect.ValueOf(container)
	switch cv.Kind() {
	case reflect.String:
		ev := reflect.ValueOf(element)
		if ev.Kind() != reflect.String {
			return false, false
		}
		return strings.Contains(cv.String(), ev.String()), true
	case reflect.Map:
		for _, key := range cv.MapKeys() {
			if assert.ObjectsAreEqual(key.Interface(), element) {
				return true, true
			}
		}
		return false, true
	case reflect.Slice, reflect.Array:
		for i := 0; i < cv.Len(); i++ {
			if assert.ObjectsAreEqual(cv.Index(i).Interface(), element) {
				return true, true
			}
		}
		return false, true
	}
	return false, false
}

// compareValues returns -1, 0, or 1 for a < b, a == b, a > b. ok is false
// when the two values do not share an ordered type.
func compareValues(a, b interface{}) (cmp int, ok bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb {
		return 0, false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return compareInt64(va.Int(), vb.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch {
		case va.Uint() < vb.Uint():
			return -1, true
		case va.Uint() > vb.Uint():
			return 1, true
		}
		return 0, true
	case reflect.Float32, reflect.Float64:
		switch {
		case va.Float() < vb.Float():
			return -1, true
		case va.Float() > vb.Float():
			return 1, true
		}
		return 0, true
	case reflect.String:
		return strings.Compare(va.String(), vb.String()), true
	}
	return 0, false
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
