package ebml

import (
	"io"
	"math"
	"time"

	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ebmlint"
	"github.com/ebmlio/container/ids"
)

// epoch is the EBML Date reference instant (§3.7): nanoseconds stored in a
// Date element are relative to 2001-01-01T00:00:00.000000000 UTC, the same
// epoch the original tide library and the Matroska spec use.
var epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Int is a signed integer element (§3.3), stored at minimum two's
// complement width, 0-8 bytes.
type Int struct {
	ElementBase
	Value   int64
	Default int64
}

// NewInt constructs an Int element with the given id and default value.
func NewInt(id ids.ID, def int64) (*Int, error) {
	e := &Int{Value: def, Default: def}
	base, err := NewElementBase(id, e)
	if err != nil {
		return nil, err
	}
	e.ElementBase = base
	return e, nil
}

// IsDefault reports whether Value equals Default, letting a master element
// elide this child on write (§3.3 default-value rule).
func (e *Int) IsDefault() bool { return e.Value == e.Default }

func (e *Int) BodyStoredSize() (uint64, error) { return uint64(ebmlint.SizeS(e.Value)), nil }

func (e *Int) ReadBody(s Stream, size uint64) error {
	buf := make([]byte, size)
	if _, err := io.ReadFull(s, buf); err != nil {
		return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	v, err := ebmlint.DecodeS(buf)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

func (e *Int) StartBody(s Stream) (uint64, error) {
	n, err := ebmlint.WriteS(s, e.Value, 0)
	return uint64(n), err
}

func (e *Int) FinishBody(s Stream) error { return nil }

// Uint is an unsigned integer element (§3.3).
type Uint struct {
	ElementBase
	Value   uint64
	Default uint64
}

func NewUint(id ids.ID, def uint64) (*Uint, error) {
	e := &Uint{Value: def, Default: def}
	base, err := NewElementBase(id, e)
	if err != nil {
		return nil, err
	}
	e.ElementBase = base
	return e, nil
}

func (e *Uint) IsDefault() bool { return e.Value == e.Default }

func (e *Uint) BodyStoredSize() (uint64, error) { return uint64(ebmlint.SizeU(e.Value)), nil }

func (e *Uint) ReadBody(s Stream, size uint64) error {
	buf := make([]byte, size)
	if _, err := io.ReadFull(s, buf); err != nil {
		return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	v, err := ebmlint.DecodeU(buf)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

func (e *Uint) StartBody(s Stream) (uint64, error) {
	n, err := ebmlint.WriteU(s, e.Value, 0)
	return uint64(n), err
}

func (e *Uint) FinishBody(s Stream) error { return nil }

// Float is an IEEE-754 floating point element, stored as either 4 bytes
// (single precision) or 8 bytes (double precision) on the wire (§3.4).
// Width is chosen at construction (and taken from the observed body size
// on read) since, unlike integers, a float element's wire width is not
// derived from its value.
type Float struct {
	ElementBase
	Value   float64
	Default float64
	Double  bool // true: store as 8-byte double; false: 4-byte single
}

func NewFloat(id ids.ID, def float64, double bool) (*Float, error) {
	e := &Float{Value: def, Default: def, Double: double}
	base, err := NewElementBase(id, e)
	if err != nil {
		return nil, err
	}
	e.ElementBase = base
	return e, nil
}

func (e *Float) IsDefault() bool { return e.Value == e.Default }

func (e *Float) BodyStoredSize() (uint64, error) {
	if e.Double {
		return 8, nil
	}
	return 4, nil
}

func (e *Float) ReadBody(s Stream, size uint64) error {
	buf := make([]byte, size)
	if _, err := io.ReadFull(s, buf); err != nil {
		return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	switch size {
	case 4:
		e.Value = float64(math.Float32frombits(beUint32(buf)))
		e.Double = false
	case 8:
		e.Value = math.Float64frombits(beUint64(buf))
		e.Double = true
	default:
		return ebmlerr.New(ebmlerr.BadElementLength, "observed", size, "allowed", "4 or 8")
	}
	return nil
}

func (e *Float) StartBody(s Stream) (uint64, error) {
	var buf []byte
	if e.Double {
		buf = putBEUint64(math.Float64bits(e.Value))
	} else {
		buf = putBEUint32(math.Float32bits(float32(e.Value)))
	}
	n, err := s.Write(buf)
	if err != nil {
		return uint64(n), ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return uint64(n), nil
}

func (e *Float) FinishBody(s Stream) error { return nil }

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func putBEUint32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func putBEUint64(v uint64) []byte {
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}

// String is a printable or UTF-8 string element (§3.5). When PadWidth
// exceeds the value's length, the value is padded on write with trailing
// 0x00 bytes up to PadWidth; trailing 0x00 bytes are always trimmed on read.
type String struct {
	ElementBase
	Value    string
	Default  string
	PadWidth int
}

func NewString(id ids.ID, def string) (*String, error) {
	e := &String{Value: def, Default: def}
	base, err := NewElementBase(id, e)
	if err != nil {
		return nil, err
	}
	e.ElementBase = base
	return e, nil
}

func (e *String) IsDefault() bool { return e.Value == e.Default }

func (e *String) BodyStoredSize() (uint64, error) {
	n := len(e.Value)
	if n < e.PadWidth {
		n = e.PadWidth
	}
	return uint64(n), nil
}

func (e *String) ReadBody(s Stream, size uint64) error {
	buf := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(s, buf); err != nil {
			return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
		}
	}
	i := len(buf)
	for i > 0 && buf[i-1] == 0 {
		i--
	}
	e.Value = string(buf[:i])
	return nil
}

func (e *String) StartBody(s Stream) (uint64, error) {
	buf := []byte(e.Value)
	if len(buf) < e.PadWidth {
		pad := make([]byte, e.PadWidth-len(buf))
		buf = append(buf, pad...)
	}
	n, err := s.Write(buf)
	if err != nil {
		return uint64(n), ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return uint64(n), nil
}

func (e *String) FinishBody(s Stream) error { return nil }

// Binary is an opaque byte-string element (§3.6): no interpretation, no
// default-value elision.
type Binary struct {
	ElementBase
	Value []byte
}

func NewBinary(id ids.ID) (*Binary, error) {
	e := &Binary{}
	base, err := NewElementBase(id, e)
	if err != nil {
		return nil, err
	}
	e.ElementBase = base
	return e, nil
}

func (e *Binary) BodyStoredSize() (uint64, error) { return uint64(len(e.Value)), nil }

func (e *Binary) ReadBody(s Stream, size uint64) error {
	buf := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(s, buf); err != nil {
			return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
		}
	}
	e.Value = buf
	return nil
}

func (e *Binary) StartBody(s Stream) (uint64, error) {
	n, err := s.Write(e.Value)
	if err != nil {
		return uint64(n), ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return uint64(n), nil
}

func (e *Binary) FinishBody(s Stream) error { return nil }

// Date is a signed 8-byte nanosecond offset from epoch (§3.7), always 8
// bytes on both write and read.
type Date struct {
	ElementBase
	Value time.Time
}

func NewDate(id ids.ID, def time.Time) (*Date, error) {
	e := &Date{Value: def}
	base, err := NewElementBase(id, e)
	if err != nil {
		return nil, err
	}
	e.ElementBase = base
	return e, nil
}

func (e *Date) BodyStoredSize() (uint64, error) { return 8, nil }

func (e *Date) ReadBody(s Stream, size uint64) error {
	if size != 8 {
		return ebmlerr.New(ebmlerr.BadElementLength, "observed", size, "allowed", 8)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(s, buf); err != nil {
		return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	ns, err := ebmlint.DecodeS(buf)
	if err != nil {
		return err
	}
	e.Value = epoch.Add(time.Duration(ns) * time.Nanosecond)
	return nil
}

func (e *Date) StartBody(s Stream) (uint64, error) {
	ns := e.Value.Sub(epoch).Nanoseconds()
	n, err := ebmlint.WriteS(s, ns, 8)
	return uint64(n), err
}

func (e *Date) FinishBody(s Stream) error { return nil }
