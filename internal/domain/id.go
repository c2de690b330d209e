package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque identifier of a cart line or an account. Ids minted here
// are UUID strings; stored ids written as JSON numbers (millisecond
// timestamps) are kept verbatim so they round-trip unchanged.
type ID struct {
	token   string
	numeric bool
}

func NewID() ID {
	return IDFromUUID(uuid.New())
}

func IDFromUUID(u uuid.UUID) ID {
	return ID{token: u.String()}
}

// ParseID reads an id given as text. Text that is a JSON number becomes a
// numeric id, anything else a string id.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, errors.New("id is empty")
	}

	if isNumberToken(s) {
		return ID{token: s, numeric: true}, nil
	}
	return ID{token: s}, nil
}

func (id ID) String() string {
	return id.token
}

func (id ID) IsZero() bool {
	return id.token == ""
}

func (id ID) Equal(other ID) bool {
	return id == other
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.token), nil
	}
	return json.Marshal(id.token)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch value := v.(type) {
	case string:
		if value == "" {
			return errors.New("id is empty")
		}
		*id = ID{token: value}
	case json.Number:
		*id = ID{token: value.String(), numeric: true}
	default:
		return fmt.Errorf("id[%s] is neither a string nor a number", data)
	}

	return nil
}

func isNumberToken(s string) bool {
	if s[0] != '-' && (s[0] < '0' || s[0] > '9') {
		return false
	}
	return json.Valid([]byte(s))
}
