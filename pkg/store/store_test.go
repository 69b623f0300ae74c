package store

import (
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/labels"
)

var logger *zap.SugaredLogger

func init() {
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	logger = l.Sugar()
}

func TestEncoding(t *testing.T) {
	cases := map[string]struct {
		record Record
	}{
		"Empty": {
			record: Record{Spans: []Span{}},
		},
		"Placeholder": {
			record: Record{Spans: []Span{{From: 11, To: 10}}},
		},
		"LabelsAndSpans": {
			record: Record{
				Labels: labels.Set{"pool": "vlan", "site": "ams"},
				Spans:  []Span{{From: 2, To: 99}, {From: 200, To: 4094}},
			},
		},
		"NegativeBitPatterns": {
			record: Record{
				Labels: labels.Set{"empty": ""},
				Spans:  []Span{{From: ^uint64(0) - 9, To: ^uint64(0)}, {From: 5, To: 5}},
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := encodeRecord(tc.record)
			require.NoError(t, err)
			got, err := decodeRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tc.record, got)
		})
	}
}

func TestDecodeCorrupted(t *testing.T) {
	data, err := encodeRecord(Record{
		Labels: labels.Set{"a": "b"},
		Spans:  []Span{{From: 1, To: 2}},
	})
	require.NoError(t, err)

	cases := map[string][]byte{
		"Nil":          nil,
		"Version":      append([]byte{2}, data[1:]...),
		"Truncated":    data[:len(data)-1],
		"Trailing":     append(append([]byte{}, data...), 0),
		"HugeSpanList": {recordVersion, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff},
		"HugeLabelSet": {recordVersion, 0xff, 0xff, 0xff, 0xff},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeRecord(data)
			assert.Error(t, err)
		})
	}
}

func TestLabelTooLong(t *testing.T) {
	_, err := encodeRecord(Record{Labels: labels.Set{"a": string(make([]byte, 0x10000))}})
	assert.Error(t, err)
}

func TestLevelDB(t *testing.T) {
	s, err := OpenLevelDB(t.TempDir(), logger)
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}

func TestMemory(t *testing.T) {
	s, err := NewMemory(nil)
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenLevelDB(dir, logger)
	require.NoError(t, err)
	r := Record{Labels: labels.Set{"a": "b"}, Spans: []Span{{From: 1, To: 10}}}
	require.NoError(t, s.Save("q", r))
	require.NoError(t, s.Close())

	s, err = OpenLevelDB(dir, logger)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load("q")
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func testStore(t *testing.T, s Store) {
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = s.Load("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete("missing"), ErrNotFound))

	a := Record{Labels: labels.Set{"kind": "vlan"}, Spans: []Span{{From: 2, To: 4094}}}
	b := Record{Spans: []Span{{From: 101, To: 100}}}
	require.NoError(t, s.Save("b", b))
	require.NoError(t, s.Save("a", a))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	got, err := s.Load("a")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	a.Spans = append(a.Spans, Span{From: 5000, To: 5000})
	require.NoError(t, s.Save("a", a))
	got, err = s.Load("a")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	require.NoError(t, s.Delete("b"))
	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}
