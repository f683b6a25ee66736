package alignment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SpeakerID is the opaque token a diarizer attaches to a segment. It holds
// either an integer or a string and is comparable, so it can key maps.
// The zero value means "no speaker".
type SpeakerID struct {
	num   int64
	text  string
	isNum bool
}

// IntSpeaker returns a numeric speaker token.
func IntSpeaker(n int64) SpeakerID {
	return SpeakerID{num: n, text: strconv.FormatInt(n, 10), isNum: true}
}

// StringSpeaker returns a string speaker token.
func StringSpeaker(s string) SpeakerID {
	return SpeakerID{text: s}
}

// IsNumeric reports whether the token was an integer.
func (id SpeakerID) IsNumeric() bool { return id.isNum }

// IsZero reports whether no token is set. An empty string token counts as
// unset.
func (id SpeakerID) IsZero() bool { return !id.isNum && id.text == "" }

// Int returns the numeric value and whether the token is numeric.
func (id SpeakerID) Int() (int64, bool) { return id.num, id.isNum }

func (id SpeakerID) String() string { return id.text }

// Compare orders tokens naturally: numerically when both are integers,
// otherwise by their text. Equal text sorts the integer first so the order
// stays total.
func (id SpeakerID) Compare(other SpeakerID) int {
	if id.isNum && other.isNum {
		switch {
		case id.num < other.num:
			return -1
		case id.num > other.num:
			return 1
		}
		return 0
	}
	if c := strings.Compare(id.text, other.text); c != 0 {
		return c
	}
	switch {
	case id.isNum && !other.isNum:
		return -1
	case !id.isNum && other.isNum:
		return 1
	}
	return 0
}

// MarshalJSON writes integers as JSON numbers and everything else as strings.
func (id SpeakerID) MarshalJSON() ([]byte, error) {
	if id.isNum {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

// UnmarshalJSON accepts a JSON number or string. Integral numbers become
// numeric tokens; any other number keeps its literal text as a string token.
// null leaves the token unset.
func (id *SpeakerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = SpeakerID{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringSpeaker(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("speaker must be a number or a string, got %s", data)
	}
	if v, err := n.Int64(); err == nil {
		*id = IntSpeaker(v)
		return nil
	}
	*id = StringSpeaker(n.String())
	return nil
}

// MarshalYAML keeps the numeric or string shape in YAML output.
func (id SpeakerID) MarshalYAML() (interface{}, error) {
	if id.isNum {
		return id.num, nil
	}
	return id.text, nil
}
