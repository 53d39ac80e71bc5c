package person

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var (
	ErrInvalidAddress = errors.New("endereço inválido")

	nonDigitRegex = regexp.MustCompile(`\D`)
)

// Address is the structured postal address of a Person.
type Address struct {
	Street     string `json:"logradouro,omitempty" validate:"max=200"`
	Number     string `json:"numero,omitempty" validate:"max=20"`
	Complement string `json:"complemento,omitempty" validate:"max=100"`
	District   string `json:"bairro,omitempty" validate:"max=100"`
	City       string `json:"cidade,omitempty" validate:"max=100"`
	State      string `json:"estado,omitempty" validate:"omitempty,uf"`
	PostalCode string `json:"cep,omitempty" validate:"omitempty,cep"`
}

// addressFields is Address without its custom JSON decoding.
type addressFields Address

func (a *Address) Clean() {
	a.Street = core.CleanString(a.Street)
	a.Number = core.CleanString(a.Number)
	a.Complement = core.CleanString(a.Complement)
	a.District = core.CleanString(a.District)
	a.City = core.CleanString(a.City)
	a.State = strings.ToUpper(core.CleanString(a.State))
	a.PostalCode = nonDigitRegex.ReplaceAllString(a.PostalCode, "")
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// EncodeAddress serializes a to its storage text. A nil or empty address encodes to "".
func EncodeAddress(a *Address) (string, error) {
	if a == nil || a.IsZero() {
		return "", nil
	}
	b, err := json.Marshal(addressFields(*a))
	if err != nil {
		return "", errors.Wrap(err, "encoding address")
	}
	return string(b), nil
}

// DecodeAddress parses stored address text. It accepts a JSON object, a JSON string holding
// a JSON object (double encoded) and legacy text written with single quotes.
// Empty input and JSON null decode to nil.
func DecodeAddress(s string) (*Address, error) {
	return decodeAddress([]byte(strings.TrimSpace(s)), 0)
}

func decodeAddress(b []byte, depth int) (*Address, error) {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		return nil, nil
	}
	if depth > 1 {
		return nil, ErrInvalidAddress
	}

	switch b[0] {
	case '{':
		var a addressFields
		if err := json.Unmarshal(b, &a); err == nil {
			return toAddress(a), nil
		}
		// legacy: {'logradouro': 'Rua A', ...}
		legacy := bytes.ReplaceAll(b, []byte("'"), []byte(`"`))
		if err := json.Unmarshal(legacy, &a); err == nil {
			return toAddress(a), nil
		}
	case '"':
		var inner string
		if err := json.Unmarshal(b, &inner); err == nil {
			return decodeAddress([]byte(strings.TrimSpace(inner)), depth+1)
		}
	case '\'':
		if len(b) > 1 && b[len(b)-1] == '\'' {
			return decodeAddress(bytes.TrimSpace(b[1:len(b)-1]), depth+1)
		}
	}
	return nil, ErrInvalidAddress
}

func toAddress(a addressFields) *Address {
	addr := Address(a)
	if addr.IsZero() {
		return nil
	}
	return &addr
}

// UnmarshalJSON accepts both an address object and its encoded text.
func (a *Address) UnmarshalJSON(b []byte) error {
	addr, err := decodeAddress(bytes.TrimSpace(b), 0)
	if err != nil {
		return err
	}
	if addr == nil {
		*a = Address{}
		return nil
	}
	*a = *addr
	return nil
}

func (a *Address) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return errors.Errorf("person.Address: cannot scan %T", src)
	}
	addr, err := DecodeAddress(s)
	if err != nil {
		return err
	}
	if addr == nil {
		*a = Address{}
	} else {
		*a = *addr
	}
	return nil
}

func (a Address) Value() (driver.Value, error) {
	s, err := EncodeAddress(&a)
	if err != nil || s == "" {
		return nil, err
	}
	return s, nil
}
