package reacton

import "reflect"

// deepEqual is the default EqualsFunc. reflect.DeepEqual is the right tool
// here: values flowing through a Source can be anything a caller chooses
// (structs, slices, maps), and there is no single third-party comparison
// library in play elsewhere in this module that would fit better than the
// standard library's structural equality.
func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
