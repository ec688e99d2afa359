package login

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/hearthvale/beacon/proto"
)

func buildForwardingPayload(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	proto.VarInt(1).WriteTo(&buf)
	proto.WriteString(&buf, "1.2.3.4", 32767)
	proto.OfflineUUID("Bob").WriteTo(&buf)
	proto.WriteString(&buf, "Bob", 16)
	return buf.Bytes()
}

func TestVerifyForwardingAccepts(t *testing.T) {
	key := []byte("secret")
	payload := buildForwardingPayload(t)
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	sig := mac.Sum(nil)

	data := append(append([]byte{}, sig...), payload...)

	id, ok, err := VerifyForwarding(key, data)
	if err != nil {
		t.Fatalf("VerifyForwarding error: %v", err)
	}
	if !ok {
		t.Fatal("expected signature to verify")
	}
	if id.Username != "Bob" || id.ClientAddress != "1.2.3.4" || id.Version != 1 {
		t.Errorf("decoded identity = %+v", id)
	}
	if id.UUID != proto.OfflineUUID("Bob") {
		t.Errorf("decoded uuid = %v, want offline uuid for Bob", id.UUID)
	}
}

func TestVerifyForwardingRejectsBadSignature(t *testing.T) {
	key := []byte("secret")
	payload := buildForwardingPayload(t)
	badSig := make([]byte, sha256.Size)

	data := append(append([]byte{}, badSig...), payload...)

	_, ok, err := VerifyForwarding(key, data)
	if err != nil {
		t.Fatalf("VerifyForwarding error: %v", err)
	}
	if ok {
		t.Fatal("expected signature verification to fail")
	}
}

func TestReadStartUsernameTooLong(t *testing.T) {
	var body bytes.Buffer
	proto.VarInt(20).WriteTo(&body)
	body.WriteString("this_name_is_too_long")
	frame := proto.Frame{PacketID: PacketIDLoginStart, Data: bytes.NewReader(body.Bytes())}
	if _, err := ReadStart(frame); err == nil {
		t.Fatal("expected StringTooLong error for over-length username")
	}
}

func TestLoginSuccessRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	id := proto.OfflineUUID("Alice")
	if err := WriteSuccess(&buf, id, "Alice"); err != nil {
		t.Fatalf("WriteSuccess error: %v", err)
	}
	frame, err := proto.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame error: %v", err)
	}
	if frame.PacketID != PacketIDLoginSuccess {
		t.Fatalf("PacketID = %d, want %d", frame.PacketID, PacketIDLoginSuccess)
	}
	gotID, err := proto.ReadUUID(frame.Data)
	if err != nil {
		t.Fatalf("ReadUUID error: %v", err)
	}
	if gotID != id {
		t.Errorf("uuid = %v, want %v", gotID, id)
	}
	name, err := proto.ReadString(frame.Data, 16)
	if err != nil {
		t.Fatalf("ReadString error: %v", err)
	}
	if name != "Alice" {
		t.Errorf("username = %q, want Alice", name)
	}
}
