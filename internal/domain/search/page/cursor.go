package page

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/unisearch/internal/domain"
)

// Payload is the content of a cursor. Offset is the absolute position to resume after.
type Payload struct {
	Offset *int `json:"offset"`
}

var decodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// Encode returns the opaque cursor for offset: base64 of {"offset":n}.
func Encode(offset int) string {
	data, _ := json.Marshal(Payload{Offset: &offset})
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode. It only checks that the cursor is base64 encoded JSON;
// the offset may still be missing or negative.
func Decode(cursor string) (Payload, error) {
	var (
		data []byte
		err  error
	)
	for _, enc := range decodings {
		if data, err = enc.DecodeString(cursor); err == nil {
			break
		}
	}
	if err != nil {
		return Payload{}, fmt.Errorf("%w: not base64", domain.ErrMalformedCursor)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", domain.ErrMalformedCursor, err)
	}
	return p, nil
}

// offsetAfter returns the absolute offset after points to, or 0 without a cursor.
// An empty cursor counts as no cursor.
func offsetAfter(after *string) (int, error) {
	if after == nil || *after == "" {
		return 0, nil
	}
	p, err := Decode(*after)
	if err != nil {
		return 0, err
	}
	if p.Offset == nil {
		return 0, fmt.Errorf("%w: missing offset", domain.ErrMalformedCursor)
	}
	if *p.Offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", domain.ErrMalformedCursor, *p.Offset)
	}
	return *p.Offset, nil
}
