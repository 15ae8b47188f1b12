package addr

import (
	"errors"
	"testing"
)

func TestEncode_FixedLayout(t *testing.T) {
	id, err := Encode(NamespaceData, 85, 319)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "200085000000000319" {
		t.Errorf("expected 200085000000000319, got %s", id)
	}
	if len(id) != TotalWidth {
		t.Errorf("expected width %d, got %d", TotalWidth, len(id))
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	triples := []Identity{
		{NamespaceSchema, 0, 0},
		{NamespaceData, 1, 1},
		{NamespaceData, 85, 319},
		{NamespaceEdge, 9999, 999999999999},
		{NamespaceData, 4242, 123456789},
	}
	for _, want := range triples {
		id, err := Encode(want.Namespace, want.ModelID, want.RecordID)
		if err != nil {
			t.Fatalf("encode %+v: %v", want, err)
		}
		got, err := Decode(id)
		if err != nil {
			t.Fatalf("decode %s: %v", id, err)
		}
		if got != want {
			t.Errorf("round trip mismatch: encoded %+v, decoded %+v", want, got)
		}
	}
}

func TestEncode_Determinism(t *testing.T) {
	a, _ := Encode(NamespaceData, 85, 319)
	b, _ := Encode(NamespaceData, 85, 319)
	if a != b {
		t.Errorf("same triple produced different ids: %s vs %s", a, b)
	}
}

func TestEncode_CapacityOverflow(t *testing.T) {
	cases := []struct {
		name     string
		ns       Namespace
		modelID  int64
		recordID int64
	}{
		{"model id too wide", NamespaceData, 10000, 1},
		{"record id too wide", NamespaceData, 1, 1000000000000},
		{"negative model id", NamespaceData, -1, 1},
		{"negative record id", NamespaceData, 1, -1},
		{"unknown namespace", Namespace(99), 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.ns, tc.modelID, tc.recordID)
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("expected *EncodingError, got %v", err)
			}
		})
	}
}

func TestDecode_LegacyTwoSegment(t *testing.T) {
	// 16-digit ids predate the namespace segment and always meant a data record.
	got, err := Decode("0085000000000319")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Identity{Namespace: NamespaceData, ModelID: 85, RecordID: 319}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"non numeric", "20008500000000031x"},
		{"too short", "12345"},
		{"too long", "2000850000000003191"},
		{"unknown namespace code", "990085000000000319"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.id)
			var decErr *DecodingError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected *DecodingError, got %v", err)
			}
		})
	}
}

func TestDecode_NoCollisionAcrossNamespaces(t *testing.T) {
	a, _ := Encode(NamespaceData, 85, 319)
	b, _ := Encode(NamespaceEdge, 85, 319)
	if a == b {
		t.Errorf("distinct namespaces collided on id %s", a)
	}
}
