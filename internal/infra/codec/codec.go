// Package codec converts typed timer fields to and from the string
// encodings used by the key-value store. Decoders tolerate damage: any
// value that cannot be read degrades to the field's typed default instead
// of surfacing an error.
package codec

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
)

// Unset is the literal stored for absent optional values.
const Unset = "undefined"

// timeLayout is ISO-8601 with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// EncodeName renders a display name as a JSON-quoted string.
func EncodeName(name string) string {
	b, _ := json.Marshal(name)
	return string(b)
}

// DecodeName parses a JSON-quoted name. Unreadable or empty values decode
// to the default name.
func DecodeName(s string) string {
	var name string
	if err := json.Unmarshal([]byte(s), &name); err != nil || name == "" {
		return domain.DefaultName
	}
	return name
}

// EncodeDuration renders a duration as decimal integer milliseconds.
func EncodeDuration(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// DecodeDuration parses decimal integer milliseconds. Unreadable values
// decode to zero.
func DecodeDuration(s string) time.Duration {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// EncodeTime renders a timestamp in ISO-8601 UTC at millisecond precision.
// The zero time encodes as the unset literal.
func EncodeTime(t time.Time) string {
	if t.IsZero() {
		return Unset
	}
	return t.UTC().Format(timeLayout)
}

// DecodeTime parses an ISO-8601 timestamp, tolerating a JSON-quoted form
// and plain RFC 3339. Unreadable values decode to the zero time.
func DecodeTime(s string) time.Time {
	if s == "" || s == Unset {
		return time.Time{}
	}
	if len(s) >= 2 && s[0] == '"' {
		var q string
		if err := json.Unmarshal([]byte(s), &q); err == nil {
			s = q
		}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}

// EncodeIDList renders an id list as a JSON array.
func EncodeIDList(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

// DecodeIDList parses a JSON array of ids. Unreadable values decode to nil.
func DecodeIDList(s string) []string {
	var ids []string
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil
	}
	return ids
}

// EncodeBool renders a JSON boolean.
func EncodeBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// DecodeBool parses a JSON boolean. Unreadable values decode to false.
func DecodeBool(s string) bool {
	var b bool
	if err := json.Unmarshal([]byte(s), &b); err != nil {
		return false
	}
	return b
}

// EncodeChildRef renders the tri-state child reference: the unset literal,
// the verbatim none sentinel, or a JSON-quoted child id.
func EncodeChildRef(ref string) string {
	switch ref {
	case domain.ChildUnset:
		return Unset
	case domain.ChildNone:
		return domain.ChildNone
	default:
		b, _ := json.Marshal(ref)
		return string(b)
	}
}

// DecodeChildRef parses the tri-state child reference, tolerating both
// bare and JSON-quoted sentinels. Unreadable values decode to unset.
func DecodeChildRef(s string) string {
	switch s {
	case "", Unset:
		return domain.ChildUnset
	case domain.ChildNone:
		return domain.ChildNone
	}
	var ref string
	if err := json.Unmarshal([]byte(s), &ref); err != nil {
		return domain.ChildUnset
	}
	switch ref {
	case Unset:
		return domain.ChildUnset
	case domain.ChildNone:
		return domain.ChildNone
	}
	return ref
}

// EncodeParentID renders a parent reference as a JSON-quoted id, with the
// root literal standing in for top-level timers.
func EncodeParentID(id string) string {
	if id == "" {
		id = domain.RootParentID
	}
	b, _ := json.Marshal(id)
	return string(b)
}

// DecodeParentID parses a JSON-quoted parent reference. Unreadable values
// decode to the root literal.
func DecodeParentID(s string) string {
	var id string
	if err := json.Unmarshal([]byte(s), &id); err != nil || id == "" {
		return domain.RootParentID
	}
	return id
}
