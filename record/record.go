// Package record interprets raw sector bytes as fixed on-disk layouts.
//
// A layout is a Go struct made only of fixed-size exported fields (integers,
// byte arrays, arrays and nested structs of those). Unpack decodes it in one
// byte order; UnpackMagic picks the byte order by checking the layout's
// signature against known constants, so one struct serves both on-disk
// endiannesses.
package record

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"sync"

	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"
)

var (
	ErrShortBuffer = errors.New("buffer shorter than record layout")
	ErrNoMagic     = errors.New("record signature matches no known constant")
)

// Magical is implemented by layouts whose signature field selects the byte order.
type Magical interface {
	Magic() uint64
}

var sizes sync.Map // reflect.Type -> int

// Size returns the encoded length of layout v, or -1 if v has no fixed layout.
// Lengths are computed once per type.
func Size(v interface{}) int {
	t := reflect.TypeOf(v)
	if n, ok := sizes.Load(t); ok {
		return n.(int)
	}
	if binary.Size(v) < 0 {
		return -1
	}
	n, err := restruct.SizeOf(v)
	if err != nil {
		return -1
	}
	sizes.Store(t, n)
	return n
}

// Unpack decodes the head of buf into v, which must be a pointer to a layout.
// Bytes beyond the layout are ignored. It fails only when buf is too short.
func Unpack(buf []byte, order binary.ByteOrder, v interface{}) error {
	n := Size(v)
	if n < 0 {
		return errors.Errorf("%T has no fixed layout", v)
	}
	if len(buf) < n {
		return errors.Wrapf(ErrShortBuffer, "%T needs %d bytes, have %d", v, n, len(buf))
	}
	return restruct.Unpack(buf[:n], order, v)
}

// UnpackMagic decodes buf in the declared order and, when the signature is not
// one of magics but its byte-swapped reading is, swaps the whole record. It
// returns the byte order the record was actually stored in.
func UnpackMagic(buf []byte, order binary.ByteOrder, v Magical, magics ...uint64) (binary.ByteOrder, error) {
	if err := Unpack(buf, order, v); err != nil {
		return nil, err
	}
	if known(v.Magic(), magics) {
		return order, nil
	}
	Swap(v)
	if known(v.Magic(), magics) {
		return Opposite(order), nil
	}
	Swap(v)
	return nil, ErrNoMagic
}

func known(m uint64, magics []uint64) bool {
	for _, k := range magics {
		if m == k {
			return true
		}
	}
	return false
}

// Opposite returns the other standard byte order.
func Opposite(order binary.ByteOrder) binary.ByteOrder {
	if order == binary.BigEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// CString returns the bytes of b up to the first NUL, with trailing spaces removed.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimRight(b, " "))
}

// Zero reports whether every byte of b is zero.
func Zero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
