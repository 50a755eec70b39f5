package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	disruptdb "github.com/gendx/disruptdb"
	"github.com/gendx/disruptdb/compact"
	"github.com/gendx/disruptdb/intern"
	"github.com/gendx/disruptdb/internal/hash"
)

// Shared zstd coders; both are safe for concurrent use with EncodeAll and
// DecodeAll.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Record variant tags in the binary payload.
const (
	recordSuccess = 1
	recordError   = 2
)

// BinaryCodec serializes a *disruptdb.Database in the hand-rolled binary
// format. It implements codec.Codec but, unlike the generic codecs, only
// accepts databases.
type BinaryCodec struct {
	// Compress enables zstd compression of the payload. The flag is
	// recorded in the header, so either setting decodes both kinds.
	Compress bool
}

// Name returns the unique name of the codec ("binary").
func (BinaryCodec) Name() string { return "binary" }

// Marshal encodes the database with header and checksum trailer.
func (c BinaryCodec) Marshal(v any) ([]byte, error) {
	db, ok := v.(*disruptdb.Database)
	if !ok {
		return nil, fmt.Errorf("persist: %w: %T", ErrInvalidValue, v)
	}

	payload, err := encodeDatabase(db)
	if err != nil {
		return nil, err
	}
	var flags uint32
	if c.Compress {
		payload = zstdEncoder.EncodeAll(payload, nil)
		flags |= FlagZstd
	}

	out := make([]byte, 0, headerSize+len(payload)+trailerSize)
	out = binary.LittleEndian.AppendUint32(out, MagicNumber)
	out = binary.LittleEndian.AppendUint32(out, Version)
	out = binary.LittleEndian.AppendUint32(out, flags)
	out = append(out, payload...)
	out = binary.LittleEndian.AppendUint32(out, hash.CRC32C(out))
	return out, nil
}

// Unmarshal decodes into v, which must be a *disruptdb.Database. The
// database's stores are replaced by freshly rebuilt ones.
func (c BinaryCodec) Unmarshal(data []byte, v any) error {
	db, ok := v.(*disruptdb.Database)
	if !ok {
		return fmt.Errorf("persist: %w: %T", ErrInvalidValue, v)
	}
	if len(data) < headerSize+trailerSize {
		return fmt.Errorf("persist: %w: %d bytes", ErrTruncated, len(data))
	}

	body := data[:len(data)-trailerSize]
	if got := binary.LittleEndian.Uint32(data[len(data)-trailerSize:]); got != hash.CRC32C(body) {
		return fmt.Errorf("persist: %w", ErrChecksum)
	}

	if magic := binary.LittleEndian.Uint32(body[0:4]); magic != MagicNumber {
		return fmt.Errorf("persist: %w: got 0x%08x", ErrInvalidMagic, magic)
	}
	if version := binary.LittleEndian.Uint32(body[4:8]); version != Version {
		return fmt.Errorf("persist: %w: got 0x%08x", ErrInvalidVersion, version)
	}
	flags := binary.LittleEndian.Uint32(body[8:12])

	payload := body[headerSize:]
	if flags&FlagZstd != 0 {
		var err error
		payload, err = zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return fmt.Errorf("persist: decompress payload: %w", err)
		}
	}

	return decodeDatabase(payload, db)
}

// writer accumulates the little-endian payload. bytes.Buffer writes cannot
// fail, so the encode path is error-free until record validation.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(v uint8) { w.buf.WriteByte(v) }

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) i64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

// reader consumes the payload with a sticky error: after the first failure
// every accessor returns a zero value and the error surfaces once at the end.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.fail(ErrTruncated)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) i64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *reader) str() string {
	return string(r.take(int(r.u32())))
}

func (r *reader) uuid() uuid.UUID {
	var u uuid.UUID
	copy(u[:], r.take(16))
	return u
}

// count reads an element count and bounds-checks it against the remaining
// payload, so corrupt lengths fail fast instead of driving huge loops.
func (r *reader) count(elemSize int) int {
	n := int(r.u32())
	if r.err == nil && n*elemSize > len(r.data)-r.off {
		r.fail(ErrTruncated)
		return 0
	}
	return n
}

func writeHandle[T any](w *writer, h intern.Handle[T]) { w.u32(h.ID()) }

func readHandle[T any](r *reader) intern.Handle[T] {
	return intern.HandleFromID[T](r.u32())
}

func writeOptHandle[T any](w *writer, h *intern.Handle[T]) {
	if h == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	writeHandle(w, *h)
}

func readOptHandle[T any](r *reader) *intern.Handle[T] {
	if r.u8() == 0 {
		return nil
	}
	h := readHandle[T](r)
	return &h
}

func writeSet[T any](w *writer, s intern.Set[T]) {
	tokens := s.EncodeRLE()
	w.u32(uint32(len(tokens)))
	for _, t := range tokens {
		w.i32(t)
	}
}

func readSet[T any](r *reader) intern.Set[T] {
	n := r.count(4)
	tokens := make([]int32, 0, n)
	for i := 0; i < n; i++ {
		tokens = append(tokens, r.i32())
	}
	return intern.SetFromRLE[T](tokens)
}

// encodeStore writes one store's value sequence in insertion order.
func encodeStore[T any](w *writer, st *intern.Store[T], elem func(*writer, T)) {
	values := st.Snapshot()
	w.u32(uint32(len(values)))
	for _, v := range values {
		elem(w, v)
	}
}

// decodeStore replays one store's value sequence. Ids come out as a pure
// function of insertion order, so handles written by encode stay valid.
func decodeStore[T any](r *reader, st *intern.Store[T], minSize int, elem func(*reader) T) {
	n := r.count(minSize)
	for i := 0; i < n; i++ {
		if r.err != nil {
			return
		}
		st.PushUnchecked(elem(r))
	}
}

func writeDisruption(w *writer, d compact.Disruption) {
	writeHandle(w, d.ID)
	writeSet(w, d.ApplicationPeriods)
	w.i64(int64(d.LastUpdate))
	writeHandle(w, d.Cause)
	writeHandle(w, d.Severity)
	if d.Tags != nil {
		w.u8(1)
		writeSet(w, *d.Tags)
	} else {
		w.u8(0)
	}
	writeHandle(w, d.Title)
	writeOptHandle(w, d.Message)
	writeOptHandle(w, d.ShortMessage)
	writeOptHandle(w, d.DisruptionID)
}

func readDisruption(r *reader) compact.Disruption {
	var d compact.Disruption
	d.ID = readHandle[uuid.UUID](r)
	d.ApplicationPeriods = readSet[compact.ApplicationPeriod](r)
	d.LastUpdate = compact.TimestampParis(r.i64())
	d.Cause = readHandle[string](r)
	d.Severity = readHandle[string](r)
	if r.u8() != 0 {
		tags := readSet[string](r)
		d.Tags = &tags
	}
	d.Title = readHandle[string](r)
	d.Message = readOptHandle[string](r)
	d.ShortMessage = readOptHandle[string](r)
	d.DisruptionID = readOptHandle[uuid.UUID](r)
	return d
}

func writeRecord(w *writer, rec compact.Record) error {
	switch {
	case rec.Success != nil:
		w.u8(recordSuccess)
		writeHandle(w, rec.Success.Disruptions)
		writeHandle(w, rec.Success.Lines)
		w.i64(int64(rec.Success.LastUpdated))
	case rec.Error != nil:
		w.u8(recordError)
		w.i32(int32(rec.Error.StatusCode))
		writeHandle(w, rec.Error.Error)
		writeHandle(w, rec.Error.Message)
	default:
		return fmt.Errorf("persist: record has no variant")
	}
	return nil
}

func readRecord(r *reader) compact.Record {
	switch tag := r.u8(); tag {
	case recordSuccess:
		return compact.Record{Success: &compact.RecordSuccess{
			Disruptions: readHandle[intern.Set[compact.Disruption]](r),
			Lines:       readHandle[intern.Set[compact.Line]](r),
			LastUpdated: compact.TimestampMillis(r.i64()),
		}}
	case recordError:
		return compact.Record{Error: &compact.RecordError{
			StatusCode: int(r.i32()),
			Error:      readHandle[string](r),
			Message:    readHandle[string](r),
		}}
	default:
		if r.err == nil {
			r.fail(fmt.Errorf("persist: unknown record variant %d", tag))
		}
		return compact.Record{}
	}
}

func encodeDatabase(db *disruptdb.Database) ([]byte, error) {
	w := &writer{}
	st := db.Stores

	encodeStore(w, st.Strings, func(w *writer, v string) { w.str(v) })
	encodeStore(w, st.UUIDs, func(w *writer, v uuid.UUID) { w.buf.Write(v[:]) })
	encodeStore(w, st.DisruptionSets, writeSet[compact.Disruption])
	encodeStore(w, st.Disruptions, writeDisruption)
	encodeStore(w, st.ApplicationPeriods, func(w *writer, v compact.ApplicationPeriod) {
		w.i64(int64(v.Begin))
		w.i64(int64(v.End))
	})
	encodeStore(w, st.LineSets, writeSet[compact.Line])
	encodeStore(w, st.Lines, func(w *writer, v compact.Line) {
		writeHandle(w, v.Header)
		writeSet(w, v.ImpactedObjects)
	})
	encodeStore(w, st.LineHeaders, func(w *writer, v compact.LineHeader) {
		writeHandle(w, v.ID)
		writeHandle(w, v.Name)
		writeHandle(w, v.ShortName)
		writeHandle(w, v.Mode)
		writeHandle(w, v.NetworkID)
	})
	encodeStore(w, st.ImpactedObjects, func(w *writer, v compact.ImpactedObject) {
		writeHandle(w, v.Object)
		writeHandle(w, v.DisruptionIDs)
	})
	encodeStore(w, st.Objects, func(w *writer, v compact.Object) {
		writeHandle(w, v.Type)
		writeHandle(w, v.ID)
		writeHandle(w, v.Name)
	})
	encodeStore(w, st.UUIDSets, writeSet[uuid.UUID])

	w.u32(uint32(len(db.Records)))
	for i := range db.Records {
		if err := writeRecord(w, db.Records[i]); err != nil {
			return nil, err
		}
	}

	return w.buf.Bytes(), nil
}

func decodeDatabase(payload []byte, db *disruptdb.Database) error {
	r := &reader{data: payload}
	stores := compact.NewStores()

	decodeStore(r, stores.Strings, 4, func(r *reader) string { return r.str() })
	decodeStore(r, stores.UUIDs, 16, func(r *reader) uuid.UUID { return r.uuid() })
	decodeStore(r, stores.DisruptionSets, 4, readSet[compact.Disruption])
	decodeStore(r, stores.Disruptions, 4, readDisruption)
	decodeStore(r, stores.ApplicationPeriods, 16, func(r *reader) compact.ApplicationPeriod {
		return compact.ApplicationPeriod{
			Begin: compact.TimestampParis(r.i64()),
			End:   compact.TimestampParis(r.i64()),
		}
	})
	decodeStore(r, stores.LineSets, 4, readSet[compact.Line])
	decodeStore(r, stores.Lines, 8, func(r *reader) compact.Line {
		return compact.Line{
			Header:          readHandle[compact.LineHeader](r),
			ImpactedObjects: readSet[compact.ImpactedObject](r),
		}
	})
	decodeStore(r, stores.LineHeaders, 20, func(r *reader) compact.LineHeader {
		return compact.LineHeader{
			ID:        readHandle[string](r),
			Name:      readHandle[string](r),
			ShortName: readHandle[string](r),
			Mode:      readHandle[string](r),
			NetworkID: readHandle[string](r),
		}
	})
	decodeStore(r, stores.ImpactedObjects, 8, func(r *reader) compact.ImpactedObject {
		return compact.ImpactedObject{
			Object:        readHandle[compact.Object](r),
			DisruptionIDs: readHandle[intern.Set[uuid.UUID]](r),
		}
	})
	decodeStore(r, stores.Objects, 12, func(r *reader) compact.Object {
		return compact.Object{
			Type: readHandle[string](r),
			ID:   readHandle[string](r),
			Name: readHandle[string](r),
		}
	})
	decodeStore(r, stores.UUIDSets, 4, readSet[uuid.UUID])

	n := r.count(1)
	records := make([]compact.Record, 0, n)
	for i := 0; i < n; i++ {
		if r.err != nil {
			break
		}
		records = append(records, readRecord(r))
	}

	if r.err != nil {
		return r.err
	}
	if r.off != len(r.data) {
		return fmt.Errorf("persist: %d trailing bytes after database", len(r.data)-r.off)
	}

	db.Stores = stores
	db.Records = records
	return nil
}
