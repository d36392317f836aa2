package record

import (
	"math/bits"
	"reflect"
)

// Swap reverses the byte order of every multi-byte integer in the layout v
// points to, recursing into nested structs and arrays. Byte arrays are text or
// opaque data and are left alone.
func Swap(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return
	}
	swapValue(rv.Elem())
}

func swapValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Uint16:
		v.SetUint(uint64(bits.ReverseBytes16(uint16(v.Uint()))))
	case reflect.Int16:
		v.SetInt(int64(int16(bits.ReverseBytes16(uint16(v.Int())))))
	case reflect.Uint32:
		v.SetUint(uint64(bits.ReverseBytes32(uint32(v.Uint()))))
	case reflect.Int32:
		v.SetInt(int64(int32(bits.ReverseBytes32(uint32(v.Int())))))
	case reflect.Uint64:
		v.SetUint(bits.ReverseBytes64(v.Uint()))
	case reflect.Int64:
		v.SetInt(int64(bits.ReverseBytes64(uint64(v.Int()))))
	case reflect.Array:
		switch v.Type().Elem().Kind() {
		case reflect.Uint8, reflect.Int8:
			return
		}
		for i := 0; i < v.Len(); i++ {
			swapValue(v.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				swapValue(f)
			}
		}
	}
}
