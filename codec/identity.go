package codec

// Identity passes the value through unchanged. Attaching it to a field
// disables the built-in cast for that direction, which keeps values such as
// pre-rendered strings or opaque blobs exactly as stored.
func Identity(v any) (any, error) { return v, nil }
