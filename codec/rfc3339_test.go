package codec_test

import (
	"testing"
	"time"

	"github.com/declconf/declconf/codec"
)

func TestTimeRFC3339EncodeCanonicalizesToUTC(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	in := time.Date(2024, 5, 1, 21, 30, 0, 0, loc)
	got, err := codec.TimeRFC3339Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "2024-05-01T12:30:00Z" {
		t.Fatalf("got %q", got)
	}
}

func TestTimeRFC3339DecodeAcceptsOptionalFraction(t *testing.T) {
	for _, s := range []string{"2024-05-01T12:30:00Z", "2024-05-01T12:30:00.123Z"} {
		got, err := codec.TimeRFC3339Decode(s)
		if err != nil {
			t.Fatalf("decode %q: %v", s, err)
		}
		if _, ok := got.(time.Time); !ok {
			t.Fatalf("decode %q: got %T", s, got)
		}
	}
	if _, err := codec.TimeRFC3339Decode("yesterday"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTimeRFC3339NilStaysNil(t *testing.T) {
	if v, err := codec.TimeRFC3339Encode(nil); v != nil || err != nil {
		t.Fatalf("encode nil: %v %v", v, err)
	}
	if v, err := codec.TimeRFC3339Decode(nil); v != nil || err != nil {
		t.Fatalf("decode nil: %v %v", v, err)
	}
}

func TestTimeRFC3339RoundTrip(t *testing.T) {
	in := time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.UTC)
	wire, err := codec.TimeRFC3339Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := codec.TimeRFC3339Decode(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !in.Equal(back.(time.Time)) {
		t.Fatalf("round trip: %v != %v", in, back)
	}
}

func TestIdentityPassesThrough(t *testing.T) {
	v, err := codec.Identity("raw")
	if err != nil || v != "raw" {
		t.Fatalf("identity: %v %v", v, err)
	}
}
