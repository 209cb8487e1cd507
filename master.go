package ebml

import (
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ids"
	"github.com/ebmlio/container/vint"
)

// Initer is implemented by a Master-embedding struct type whose embedded
// Master needs rebinding to the struct itself once reflection constructs
// a fresh instance (a repeated child, or a freshly decoded single child).
// Concrete element types in the mkv package implement this alongside
// their constructor, e.g. NewTrackEntry calls the same binding Init does.
type Initer interface {
	Init()
}

// defaulter is satisfied by primitive element types that can elide
// themselves from a write when holding their default value (§3.3/§3.4).
type defaulter interface {
	IsDefault() bool
}

// fieldSlot describes one schema-bound struct field: the element ID it
// reads/writes as, whether the field is a slice of repeated children, and
// whether the element is required to be present.
type fieldSlot struct {
	id         ids.ID
	fieldIndex int
	elemType   reflect.Type // struct type to reflect.New for a fresh child
	repeated   bool
	required   bool
}

type structInfo struct {
	fields []*fieldSlot
	byID   map[ids.ID]*fieldSlot
}

// newStructInfo builds the field schema for t from its `ebml:"<hexid>[,required]"`
// struct tags, generalizing the teacher's read-only structInfo/fieldInfo
// pattern (_examples/pixelbender-go-matroska/ebml/reflect.go) into one
// usable for both directions.
func newStructInfo(t reflect.Type) (*structInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.New("ebml: schema target must be a struct")
	}
	info := &structInfo{byID: make(map[ids.ID]*fieldSlot)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("ebml")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		raw, err := strconv.ParseUint(parts[0], 16, 32)
		if err != nil {
			return nil, errors.New("ebml: bad element id tag on field " + f.Name + ": " + err.Error())
		}
		slot := &fieldSlot{id: ids.ID(raw), fieldIndex: i}
		for _, opt := range parts[1:] {
			if opt == "required" {
				slot.required = true
			}
		}
		ft := f.Type
		if ft.Kind() == reflect.Slice {
			slot.repeated = true
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Ptr || ft.Elem().Kind() != reflect.Struct {
			return nil, errors.New("ebml: field " + f.Name + " must be a pointer to struct (or slice of those)")
		}
		slot.elemType = ft.Elem()
		info.fields = append(info.fields, slot)
		info.byID[slot.id] = slot
	}
	return info, nil
}

// idRebinder is satisfied by ElementBase's promoted rebindID method on any
// primitive element type that embeds it directly (Int, Uint, Float,
// String, Binary, Date). Master-embedding types implement Initer instead.
type idRebinder interface {
	rebindID(ids.ID, Hooks)
}

func newSlotValue(slot *fieldSlot) reflect.Value {
	v := reflect.New(slot.elemType)
	switch iface := v.Interface().(type) {
	case Initer:
		iface.Init()
	case idRebinder:
		h, _ := v.Interface().(Hooks)
		iface.rebindID(slot.id, h)
	}
	return v
}

// Master implements Hooks for any struct whose fields carry `ebml` tags,
// generalizing the teacher's reflect-driven decode to also handle sizing
// and encoding, plus the CRC-32 wrapper of §6.3. Embed Master in a
// concrete type, then in that type's constructor call ebml.NewMaster with
// a pointer to itself; Init (for types reachable as repeated children)
// does the same so decode can mint fresh instances.
type Master struct {
	ElementBase
	CRC    bool
	schema *structInfo
	target reflect.Value
}

// NewMaster builds a Master bound to target (a pointer to a tagged
// struct), wrapping target's body in a CRC-32 element when crc is true.
func NewMaster(id ids.ID, target interface{}, crc bool) (*Master, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.New("ebml: NewMaster target must be a pointer to struct")
	}
	info, err := newStructInfo(v.Elem().Type())
	if err != nil {
		return nil, err
	}
	m := &Master{CRC: crc, schema: info, target: v.Elem()}
	base, err := NewElementBase(id, m)
	if err != nil {
		return nil, err
	}
	m.ElementBase = base
	return m, nil
}

func isDefaultValue(v reflect.Value) bool {
	d, ok := v.Interface().(defaulter)
	return ok && d.IsDefault()
}

// BodyStoredSize sums the stored size of every present, non-default child,
// plus the CRC-32 sub-element's fixed 6 bytes when Master.CRC is set.
func (m *Master) BodyStoredSize() (uint64, error) {
	var total uint64
	for _, slot := range m.schema.fields {
		fv := m.target.Field(slot.fieldIndex)
		if slot.repeated {
			if slot.required && fv.Len() == 0 {
				return 0, ebmlerr.New(ebmlerr.MissingChild, "id", slot.id)
			}
			for i := 0; i < fv.Len(); i++ {
				sz, err := fv.Index(i).Interface().(Element).StoredSize()
				if err != nil {
					return 0, err
				}
				total += sz
			}
			continue
		}
		if fv.IsNil() {
			if slot.required {
				return 0, ebmlerr.New(ebmlerr.MissingChild, "id", slot.id)
			}
			continue
		}
		if !slot.required && isDefaultValue(fv) {
			continue
		}
		sz, err := fv.Interface().(Element).StoredSize()
		if err != nil {
			return 0, err
		}
		total += sz
	}
	if m.CRC {
		total += crc32ElementSize
	}
	return total, nil
}

// StartBody renders every present child into a scratch buffer (so a CRC-32
// wrapper, if enabled, can be computed and written before the body), then
// writes the buffer to s in a single pass.
func (m *Master) StartBody(s Stream) (uint64, error) {
	scratch := newMemStream(nil)
	for _, slot := range m.schema.fields {
		fv := m.target.Field(slot.fieldIndex)
		if slot.repeated {
			if slot.required && fv.Len() == 0 {
				return 0, ebmlerr.New(ebmlerr.MissingChild, "id", slot.id)
			}
			for i := 0; i < fv.Len(); i++ {
				if err := writeChildElement(scratch, fv.Index(i).Interface().(Element)); err != nil {
					return 0, err
				}
			}
			continue
		}
		if fv.IsNil() {
			if slot.required {
				return 0, ebmlerr.New(ebmlerr.MissingChild, "id", slot.id)
			}
			continue
		}
		if !slot.required && isDefaultValue(fv) {
			continue
		}
		if err := writeChildElement(scratch, fv.Interface().(Element)); err != nil {
			return 0, err
		}
	}
	body := scratch.Bytes()
	if m.CRC {
		if err := writeCRC32Element(s, body); err != nil {
			return 0, err
		}
	}
	n, err := s.Write(body)
	if err != nil {
		return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	total := uint64(n)
	if m.CRC {
		total += crc32ElementSize
	}
	return total, nil
}

func (m *Master) FinishBody(s Stream) error { return nil }

func writeChildElement(s Stream, el Element) error {
	if err := el.StartWrite(s); err != nil {
		return err
	}
	return el.FinishWrite(s)
}

// ReadBody decodes size bytes of child elements, verifying the leading
// CRC-32 sub-element against the rest of the body when present (§6.3),
// and returning a MissingChild error if a required field was absent.
func (m *Master) ReadBody(s Stream, size uint64) (err error) {
	// Snapshot the bound struct and the CRC flag so that a failed read
	// leaves the element exactly as it was (atomicity, §7).
	savedCRC := m.CRC
	saved := reflect.New(m.target.Type()).Elem()
	saved.Set(m.target)
	defer func() {
		if err != nil {
			m.target.Set(saved)
			m.CRC = savedCRC
		}
	}()

	if size == 0 {
		log.Warnw("master element read with no children", "id", m.id)
	}
	raw := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(s, raw); err != nil {
			return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
		}
	}

	// A CRC-32 sub-element, if present, is always the first child; its
	// presence on read determines m.CRC going forward, independent of
	// whatever it was set to before the read (§4.4 round-trip rule).
	var expectedCRC uint32
	haveCRC := false
	if len(raw) >= crc32ElementSize {
		id, idSize, err := ids.Decode(raw)
		if err == nil && id == CRC32ID {
			bodySize, vintSize, err := vint.Decode(raw[idSize:])
			if err == nil && bodySize == 4 {
				off := idSize + vintSize
				expectedCRC = uint32(raw[off]) | uint32(raw[off+1])<<8 | uint32(raw[off+2])<<16 | uint32(raw[off+3])<<24
				haveCRC = true
				raw = raw[off+4:]
			}
		}
	}
	m.CRC = haveCRC
	if haveCRC {
		if got := crc32Checksum(raw); got != expectedCRC {
			return ebmlerr.New(ebmlerr.BadCrc, "expected", expectedCRC, "computed", got)
		}
		log.Debugw("master CRC verified", "id", m.id)
	}

	seen := make(map[ids.ID]bool)
	src := newMemStream(raw)
	for {
		pos, _ := Tell(src)
		if pos >= int64(len(raw)) {
			break
		}
		id, _, err := ids.Read(src)
		if err != nil {
			return err
		}
		childSize, _, err := vint.Read(src)
		if err != nil {
			return err
		}
		if pos, _ := Tell(src); pos+int64(childSize) > int64(len(raw)) {
			return ebmlerr.New(ebmlerr.BadBodySize, "id", m.id, "declared", len(raw), "child", id)
		}
		slot, ok := m.schema.byID[id]
		if !ok {
			return ebmlerr.New(ebmlerr.InvalidChildID, "child", id, "parent", m.id, "position", pos)
		}
		seen[id] = true
		child := newSlotValue(slot)
		hooks, ok := child.Interface().(Hooks)
		if !ok {
			return errors.New("ebml: schema field for id " + strconv.FormatUint(uint64(id), 16) + " is not Hooks")
		}
		if err := hooks.ReadBody(src, childSize); err != nil {
			return err
		}
		if slot.repeated {
			fv := m.target.Field(slot.fieldIndex)
			fv.Set(reflect.Append(fv, child))
		} else {
			m.target.Field(slot.fieldIndex).Set(child)
		}
	}

	for _, slot := range m.schema.fields {
		if slot.required && !seen[slot.id] {
			return ebmlerr.New(ebmlerr.MissingChild, "id", slot.id)
		}
	}
	return nil
}

// memStream is an in-memory io.ReadWriteSeeker: StartBody uses it as a
// scratch buffer to render a master's body before an optional CRC-32
// prefix is computed and written; ReadBody uses it to replay an
// already-buffered, already-CRC-verified body through the same child
// decode path that a real Stream would drive.
type memStream struct {
	data []byte
	pos  int64
}

func newMemStream(data []byte) *memStream {
	return &memStream{data: data}
}

func (b *memStream) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *memStream) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *memStream) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = b.pos
	case io.SeekEnd:
		base = int64(len(b.data))
	default:
		return 0, errors.New("memStream: invalid whence")
	}
	b.pos = base + offset
	return b.pos, nil
}

func (b *memStream) Bytes() []byte { return b.data }
