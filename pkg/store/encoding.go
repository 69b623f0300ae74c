package store

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/labels"
)

const (
	// queuePrefix is prepended to every queue name to form its db key.
	queuePrefix byte = 'Q'
	// recordVersion is the first byte of every encoded record.
	recordVersion byte = 1
	spanSize           = 16
)

func toKey(name string) []byte {
	key := make([]byte, 0, len(name)+1)
	key = append(key, queuePrefix)
	return append(key, name...)
}

func fromKey(key []byte) string {
	return string(key[1:])
}

// encodeRecord lays out a record as
//
//	version | #labels | (len key, key, len value, value)... | #spans | (from, to)...
//
// with big-endian integers; label keys are sorted.
func encodeRecord(r Record) ([]byte, error) {
	keys := make([]string, 0, len(r.Labels))
	for k := range r.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte{recordVersion}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(keys)))
	for _, k := range keys {
		var err error
		if buf, err = appendString(buf, k); err != nil {
			return nil, err
		}
		if buf, err = appendString(buf, r.Labels[k]); err != nil {
			return nil, err
		}
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(r.Spans)))
	for _, s := range r.Spans {
		buf = binary.BigEndian.AppendUint64(buf, s.From)
		buf = binary.BigEndian.AppendUint64(buf, s.To)
	}
	return buf, nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	if len(s) > 0xffff {
		return nil, errors.Errorf("label field of %d bytes exceeds 65535", len(s))
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...), nil
}

func decodeRecord(data []byte) (Record, error) {
	var r Record
	d := decoder{data: data}

	if v := d.readByte(); v != recordVersion {
		if d.err != nil {
			return r, d.err
		}
		return r, errors.Errorf("unsupported record version %d", v)
	}
	n := d.readUint32()
	// every label takes at least two length prefixes
	if d.err == nil && uint64(n)*4 > uint64(len(d.data)) {
		return r, errors.Errorf("record announces %d labels but holds %d bytes", n, len(d.data))
	}
	if n > 0 {
		r.Labels = make(labels.Set, n)
	}
	for i := uint32(0); i < n && d.err == nil; i++ {
		k := d.readString()
		v := d.readString()
		r.Labels[k] = v
	}
	n = d.readUint32()
	if d.err == nil && uint64(n)*spanSize > uint64(len(d.data)) {
		return r, errors.Errorf("record announces %d spans but holds %d bytes", n, len(d.data))
	}
	if d.err == nil {
		r.Spans = make([]Span, 0, n)
	}
	for i := uint32(0); i < n && d.err == nil; i++ {
		r.Spans = append(r.Spans, Span{From: d.readUint64(), To: d.readUint64()})
	}
	if d.err != nil {
		return Record{}, d.err
	}
	if len(d.data) != 0 {
		return Record{}, errors.Errorf("%d trailing bytes after record", len(d.data))
	}
	return r, nil
}

// decoder consumes a byte slice, remembering the first short read.
type decoder struct {
	data []byte
	err  error
}

func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.data) < n {
		d.err = errors.Errorf("record truncated: need %d bytes, have %d", n, len(d.data))
		return nil
	}
	b := d.data[:n]
	d.data = d.data[n:]
	return b
}

func (d *decoder) readByte() byte {
	if b := d.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) readUint16() uint16 {
	if b := d.next(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (d *decoder) readUint32() uint32 {
	if b := d.next(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) readUint64() uint64 {
	if b := d.next(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (d *decoder) readString() string {
	n := d.readUint16()
	return string(d.next(int(n)))
}
