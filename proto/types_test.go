package proto

import (
	"bytes"
	"strings"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	Bool(true).WriteTo(&buf)
	Int16(-1234).WriteTo(&buf)
	Uint16(54321).WriteTo(&buf)
	Int32(-70000).WriteTo(&buf)
	Int64(-1).WriteTo(&buf)
	Float32(3.5).WriteTo(&buf)
	Float64(-2.25).WriteTo(&buf)

	r := bytes.NewReader(buf.Bytes())

	if b, err := ReadBool(r); err != nil || b != true {
		t.Fatalf("ReadBool = %v, %v", b, err)
	}
	if v, err := ReadInt16(r); err != nil || v != -1234 {
		t.Fatalf("ReadInt16 = %v, %v", v, err)
	}
	if v, err := ReadUint16(r); err != nil || v != 54321 {
		t.Fatalf("ReadUint16 = %v, %v", v, err)
	}
	if v, err := ReadInt32(r); err != nil || v != -70000 {
		t.Fatalf("ReadInt32 = %v, %v", v, err)
	}
	if v, err := ReadInt64(r); err != nil || v != -1 {
		t.Fatalf("ReadInt64 = %v, %v", v, err)
	}
	if v, err := ReadFloat32(r); err != nil || v != 3.5 {
		t.Fatalf("ReadFloat32 = %v, %v", v, err)
	}
	if v, err := ReadFloat64(r); err != nil || v != -2.25 {
		t.Fatalf("ReadFloat64 = %v, %v", v, err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"", "Steve", "日本語テスト", strings.Repeat("a", 300)}
	for _, s := range cases {
		var buf bytes.Buffer
		if _, err := WriteString(&buf, s, 32767); err != nil {
			t.Fatalf("WriteString(%q) error: %v", s, err)
		}
		got, err := ReadString(&buf, 32767)
		if err != nil {
			t.Fatalf("ReadString error: %v", err)
		}
		if got != s {
			t.Errorf("round-trip = %q, want %q", got, s)
		}
	}
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteString(&buf, strings.Repeat("a", 20), 16); err == nil {
		t.Fatal("expected StringTooLong error")
	}

	var buf2 bytes.Buffer
	VarInt(20).WriteTo(&buf2)
	buf2.WriteString(strings.Repeat("a", 20))
	if _, err := ReadString(&buf2, 16); err == nil {
		t.Fatal("expected StringTooLong error on read")
	}
}

func TestOfflineUUIDIsDeterministic(t *testing.T) {
	a := OfflineUUID("Notch")
	b := OfflineUUID("Notch")
	if a != b {
		t.Fatal("OfflineUUID is not deterministic for the same username")
	}
	if a == OfflineUUID("jeb_") {
		t.Fatal("OfflineUUID collided across distinct usernames")
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	want := OfflineUUID("Dinnerbone")
	var buf bytes.Buffer
	want.WriteTo(&buf)
	got, err := ReadUUID(&buf)
	if err != nil {
		t.Fatalf("ReadUUID error: %v", err)
	}
	if got != want {
		t.Errorf("UUID round-trip = %v, want %v", got, want)
	}
}
