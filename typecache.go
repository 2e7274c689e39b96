package arc

import (
	"reflect"
	"sync"
)

// fundamentalCache memoizes, per element reflect.Type, whether a slice of
// that type qualifies for the composite codec's raw-bytes shortcut
// (spec.md §4.5's "resizable contiguous sequence of fundamental/enum
// elements"), so the Kind() classification is not recomputed on every
// encode.
var fundamentalCache sync.Map // reflect.Type -> bool

func isFundamentalOrEnum(t reflect.Type) bool {
	if v, ok := fundamentalCache.Load(t); ok {
		return v.(bool)
	}
	v := isFundamentalKind(t.Kind())
	actual, _ := fundamentalCache.LoadOrStore(t, v)
	return actual.(bool)
}

func isFundamentalKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
