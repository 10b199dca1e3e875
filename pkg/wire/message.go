package wire

import (
	"fmt"
	"strings"
)

// CBOR map keys for envelope encoding.
const (
	KeyType  = 1
	KeyValue = 2
	KeyID    = 3
	KeyReply = 4
)

// Envelope is the unit exchanged with the engine.
//
// CBOR encoding:
//
//	{
//	  1: type,   // string
//	  2: value,  // any
//	  3: id,     // uint32, omitted when zero
//	  4: reply   // bool, omitted when false
//	}
type Envelope struct {
	Type  string `json:"type" cbor:"1,keyasint"`
	Value any    `json:"value" cbor:"2,keyasint"`
	ID    uint32 `json:"id,omitempty" cbor:"3,keyasint,omitempty"`
	Reply bool   `json:"reply,omitempty" cbor:"4,keyasint,omitempty"`
}

// Validate checks the envelope can be sent.
func (e Envelope) Validate() error {
	if e.Type == "" {
		return ErrMissingType
	}
	return nil
}

// ReplyTo builds the reply envelope for e carrying value.
func (e Envelope) ReplyTo(value any) Envelope {
	return Envelope{
		Type:  e.Type,
		Value: value,
		ID:    e.ID,
		Reply: true,
	}
}

// String returns a short description for logs.
func (e Envelope) String() string {
	var b strings.Builder
	b.WriteString(e.Type)
	if e.Reply {
		b.WriteString(" (reply)")
	}
	if e.ID != 0 {
		fmt.Fprintf(&b, " #%d", e.ID)
	}
	return b.String()
}

// MatchType reports whether typ matches pattern. Both are split on "/";
// they match when they have the same number of segments and every pattern
// segment is either "*" or equal to the type segment.
func MatchType(pattern, typ string) bool {
	ps := strings.Split(pattern, "/")
	ts := strings.Split(typ, "/")
	if len(ps) != len(ts) {
		return false
	}
	for i, p := range ps {
		if p != "*" && p != ts[i] {
			return false
		}
	}
	return true
}
