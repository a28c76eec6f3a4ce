package record

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

// Round-trip properties: for every record type and both supported byte
// orders, decode(encode(x)) == x for all values that fit their fields.

func bothOrders(t *testing.T, run func(t *testing.T, order ByteOrder)) {
	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			run(t, order)
		})
	}
}

func drawLTK(t *rapid.T) []byte {
	return rapid.SliceOfN(rapid.Byte(), LTKSize, LTKSize).Draw(t, "ltk")
}

func TestClientConfigRoundTrip(t *testing.T) {
	bothOrders(t, func(t *testing.T, order ByteOrder) {
		rapid.Check(t, func(t *rapid.T) {
			original := ClientConfig{
				TimeoutReqToResMillis: uint32(rapid.Uint16().Draw(t, "timeout")),
				LTK:                   drawLTK(t),
				SID:                   uint32(rapid.Byte().Draw(t, "sid")),
				HeaderType:            uint32(rapid.Byte().Draw(t, "headerType")),
				AmountOfGroups:        uint32(rapid.Byte().Draw(t, "groups")),
			}
			padding := rapid.Byte().Draw(t, "padding")

			buf, err := original.Encode(order, padding)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			var decoded ClientConfig
			if err := decoded.Decode(buf, order); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded.TimeoutReqToResMillis != original.TimeoutReqToResMillis ||
				decoded.SID != original.SID ||
				decoded.HeaderType != original.HeaderType ||
				decoded.AmountOfGroups != original.AmountOfGroups {
				t.Fatalf("field mismatch: got %+v, want %+v", decoded, original)
			}
			if !bytes.Equal(decoded.LTK, original.LTK) {
				t.Fatalf("ltk mismatch")
			}
		})
	})
}

func TestClientGroupConfigRoundTrip(t *testing.T) {
	bothOrders(t, func(t *testing.T, order ByteOrder) {
		rapid.Check(t, func(t *rapid.T) {
			original := ClientGroupConfig{
				MaxCtrnonceDelayMsgs:         rapid.Uint32().Draw(t, "delay"),
				MaxSilenceIntervalMillis:     uint32(rapid.Uint16().Draw(t, "silence")),
				SessionRenewalDurationMillis: uint32(rapid.Uint16().Draw(t, "renewal")),
				GID:                          uint32(rapid.Byte().Draw(t, "gid")),
			}
			padding := rapid.Byte().Draw(t, "padding")

			buf, err := original.Encode(order, padding)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			var decoded ClientGroupConfig
			if err := decoded.Decode(buf, order); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded != original {
				t.Fatalf("mismatch: got %+v, want %+v", decoded, original)
			}
		})
	})
}

func TestServerSideClientConfigRoundTrip(t *testing.T) {
	bothOrders(t, func(t *testing.T, order ByteOrder) {
		rapid.Check(t, func(t *rapid.T) {
			original := ServerSideClientConfig{
				SID: uint32(rapid.Byte().Draw(t, "sid")),
				LTK: drawLTK(t),
			}
			buf, err := original.Encode(order, DefaultPadding)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			var decoded ServerSideClientConfig
			if err := decoded.Decode(buf, order); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded.SID != original.SID || !bytes.Equal(decoded.LTK, original.LTK) {
				t.Fatalf("mismatch: got %+v, want %+v", decoded, original)
			}
		})
	})
}

func TestServerGroupConfigRoundTrip(t *testing.T) {
	bothOrders(t, func(t *testing.T, order ByteOrder) {
		rapid.Check(t, func(t *rapid.T) {
			original := ServerGroupConfig{
				MaxCtrnonceDelayMsgs:               rapid.Uint32().Draw(t, "delay"),
				CtrNonceUpperLimit:                 rapid.Uint32().Draw(t, "upperLimit"),
				SessionDurationMillis:              rapid.Uint32().Draw(t, "duration"),
				DelayBetweenRenNotificationsMillis: rapid.Uint32().Draw(t, "renNotif"),
				ClientSidsInGroupBitmap:            rapid.Uint32().Draw(t, "bitmap"),
				MaxSilenceIntervalMillis:           uint32(rapid.Uint16().Draw(t, "silence")),
				GID:                                uint32(rapid.Byte().Draw(t, "gid")),
			}
			padding := rapid.Byte().Draw(t, "padding")

			buf, err := original.Encode(order, padding)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			var decoded ServerGroupConfig
			if err := decoded.Decode(buf, order); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded != original {
				t.Fatalf("mismatch: got %+v, want %+v", decoded, original)
			}
		})
	})
}

func TestServerConfigRoundTrip(t *testing.T) {
	bothOrders(t, func(t *testing.T, order ByteOrder) {
		rapid.Check(t, func(t *rapid.T) {
			original := ServerConfig{
				HeaderType:      uint32(rapid.Byte().Draw(t, "headerType")),
				AmountOfGroups:  uint32(rapid.Byte().Draw(t, "groups")),
				AmountOfClients: uint32(rapid.Byte().Draw(t, "clients")),
			}
			buf, err := original.Encode(order, DefaultPadding)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			var decoded ServerConfig
			if err := decoded.Decode(buf, order); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded != original {
				t.Fatalf("mismatch: got %+v, want %+v", decoded, original)
			}
		})
	})
}
