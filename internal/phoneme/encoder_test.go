package phoneme

import (
	"reflect"
	"testing"
)

func fullMap() map[string][]int64 {
	return map[string][]int64{
		BOS: {1},
		EOS: {2},
		PAD: {0},
		" ": {3},
		"a": {26},
		"b": {27},
		"ɑ": {41, 42}, // multi-id entry, multi-byte symbol
	}
}

func TestEncode_StructureWithMarkers(t *testing.T) {
	got := Encode("ab", fullMap(), 3)
	want := []int64{1, 0, 26, 0, 27, 0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode(ab): got %v, want %v", got, want)
	}
}

func TestEncode_MultiByteSymbol(t *testing.T) {
	// "ɑ" is two bytes in UTF-8 but must be looked up as one symbol
	got := Encode("ɑ", fullMap(), 3)
	want := []int64{1, 0, 41, 42, 0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode(ɑ): got %v, want %v", got, want)
	}
}

func TestEncode_NoPadEntry(t *testing.T) {
	m := map[string][]int64{
		BOS: {1},
		EOS: {2},
		"a": {26},
		"b": {27},
	}
	got := Encode("ab", m, 0)
	want := []int64{1, 26, 27, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode without PAD: got %v, want %v", got, want)
	}
}

func TestEncode_NoMarkersAtAll(t *testing.T) {
	m := map[string][]int64{"a": {26}}
	got := Encode("a", m, 0)
	want := []int64{26}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode without markers: got %v, want %v", got, want)
	}
}

func TestEncode_UnknownSymbolUsesDefaultID(t *testing.T) {
	m := fullMap()
	got := Encode("x", m, DefaultID(m))
	// exactly one default id, derived from the " " entry
	want := []int64{1, 0, 3, 0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode(x): got %v, want %v", got, want)
	}
}

func TestEncode_EmptyInput(t *testing.T) {
	if got := Encode("", fullMap(), 3); len(got) != 0 {
		t.Fatalf("Encode of empty string should be empty, got %v", got)
	}
}

func TestEncode_EmptyMapFallsBackEverywhere(t *testing.T) {
	got := Encode("ab", map[string][]int64{}, 0)
	want := []int64{0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode with empty map: got %v, want %v", got, want)
	}
}

func TestDefaultID_FromSpaceEntry(t *testing.T) {
	m := map[string][]int64{" ": {7}}
	if got := DefaultID(m); got != 7 {
		t.Fatalf("DefaultID: got %d, want 7", got)
	}
}

func TestDefaultID_NoSpaceEntry(t *testing.T) {
	if got := DefaultID(map[string][]int64{}); got != fallbackID {
		t.Fatalf("DefaultID: got %d, want %d", got, fallbackID)
	}
}
