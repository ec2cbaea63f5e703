package rw

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ReaderWriter writes and reads protobuf wire-format records by hand, without
// generated message types. The first read error sticks: every later read
// returns zero values and Err reports it.
type ReaderWriter struct {
	buf  []byte
	data []byte
	typ  protowire.Type
	err  error
}

func NewWriter() *ReaderWriter {
	return &ReaderWriter{}
}

func NewReader(data []byte) *ReaderWriter {
	return &ReaderWriter{data: data}
}

func (w *ReaderWriter) GetWriteBytes() []byte {
	return w.buf
}

func (w *ReaderWriter) WriteUint64(num protowire.Number, v uint64) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, v)
}

// WriteInt32 uses zigzag encoding, so negative handles stay short.
func (w *ReaderWriter) WriteInt32(num protowire.Number, v int32) {
	w.WriteUint64(num, protowire.EncodeZigZag(int64(v)))
}

func (w *ReaderWriter) WriteBool(num protowire.Number, v bool) {
	w.WriteUint64(num, protowire.EncodeBool(v))
}

func (w *ReaderWriter) WriteFloat64(num protowire.Number, v float64) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.Fixed64Type)
	w.buf = protowire.AppendFixed64(w.buf, math.Float64bits(v))
}

func (w *ReaderWriter) WriteString(num protowire.Number, v string) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendString(w.buf, v)
}

func (w *ReaderWriter) WriteBytes(num protowire.Number, v []byte) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, v)
}

// WriteMessage writes a nested record filled in by fn.
func (w *ReaderWriter) WriteMessage(num protowire.Number, fn func(sub *ReaderWriter)) {
	sub := NewWriter()
	fn(sub)
	w.WriteBytes(num, sub.GetWriteBytes())
}

func (w *ReaderWriter) WriteInt32s(num protowire.Number, vs []int32) {
	if len(vs) == 0 {
		return
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v)))
	}
	w.WriteBytes(num, packed)
}

func (w *ReaderWriter) WriteFloat64s(num protowire.Number, vs []float64) {
	if len(vs) == 0 {
		return
	}
	packed := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	w.WriteBytes(num, packed)
}

func (w *ReaderWriter) Err() error {
	return w.err
}

func (w *ReaderWriter) fail(n int, what string) {
	if w.err == nil {
		w.err = errors.Wrap(protowire.ParseError(n), what)
	}
	w.data = nil
}

func (w *ReaderWriter) expect(typ protowire.Type, what string) bool {
	if w.err != nil {
		return false
	}
	if w.typ != typ {
		w.err = errors.Errorf("%s: wire type %d, want %d", what, w.typ, typ)
		w.data = nil
		return false
	}
	return true
}

// Next reads the next field tag. It returns false at the end of the data or
// after an error.
func (w *ReaderWriter) Next() (protowire.Number, bool) {
	if w.err != nil || len(w.data) == 0 {
		return 0, false
	}
	num, typ, n := protowire.ConsumeTag(w.data)
	if n < 0 {
		w.fail(n, "read tag")
		return 0, false
	}
	w.data = w.data[n:]
	w.typ = typ
	return num, true
}

// Skip drops the value of the field Next just returned.
func (w *ReaderWriter) Skip(num protowire.Number) {
	if w.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(num, w.typ, w.data)
	if n < 0 {
		w.fail(n, "skip field")
		return
	}
	w.data = w.data[n:]
}

func (w *ReaderWriter) ReadUint64() uint64 {
	if !w.expect(protowire.VarintType, "read varint") {
		return 0
	}
	v, n := protowire.ConsumeVarint(w.data)
	if n < 0 {
		w.fail(n, "read varint")
		return 0
	}
	w.data = w.data[n:]
	return v
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(protowire.DecodeZigZag(w.ReadUint64()))
}

func (w *ReaderWriter) ReadBool() bool {
	return protowire.DecodeBool(w.ReadUint64())
}

func (w *ReaderWriter) ReadFloat64() float64 {
	if !w.expect(protowire.Fixed64Type, "read fixed64") {
		return 0
	}
	v, n := protowire.ConsumeFixed64(w.data)
	if n < 0 {
		w.fail(n, "read fixed64")
		return 0
	}
	w.data = w.data[n:]
	return math.Float64frombits(v)
}

func (w *ReaderWriter) ReadBytes() []byte {
	if !w.expect(protowire.BytesType, "read bytes") {
		return nil
	}
	v, n := protowire.ConsumeBytes(w.data)
	if n < 0 {
		w.fail(n, "read bytes")
		return nil
	}
	w.data = w.data[n:]
	return v
}

func (w *ReaderWriter) ReadString() string {
	return string(w.ReadBytes())
}

// ReadMessage returns a reader over a nested record. Its errors are its own;
// check them with Err on the returned reader.
func (w *ReaderWriter) ReadMessage() *ReaderWriter {
	return NewReader(w.ReadBytes())
}

func (w *ReaderWriter) ReadInt32s() []int32 {
	packed := w.ReadBytes()
	var res []int32
	for len(packed) > 0 {
		v, n := protowire.ConsumeVarint(packed)
		if n < 0 {
			w.fail(n, "read packed varints")
			return nil
		}
		packed = packed[n:]
		res = append(res, int32(protowire.DecodeZigZag(v)))
	}
	return res
}

func (w *ReaderWriter) ReadFloat64s() []float64 {
	packed := w.ReadBytes()
	var res []float64
	for len(packed) > 0 {
		v, n := protowire.ConsumeFixed64(packed)
		if n < 0 {
			w.fail(n, "read packed fixed64")
			return nil
		}
		packed = packed[n:]
		res = append(res, math.Float64frombits(v))
	}
	return res
}
