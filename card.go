package ravelin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	validation "github.com/jellydator/validation"
)

const (
	// DefaultMinPANDigits is the shortest PAN accepted, counted in digits
	// after separators are stripped.
	DefaultMinPANDigits = 12

	msgMonth = "month should be in the range 1-12"
	msgYear  = "year should be in the 21st century"
)

// Card holds the card details to encrypt. Month and Year accept either a
// number or a string in JSON; two-digit years are read as 20xx.
type Card struct {
	PAN        string `json:"pan"`
	Month      string `json:"month"`
	Year       string `json:"year"`
	NameOnCard string `json:"nameOnCard,omitempty"`
}

// cardFields lists the only properties a card may carry.
var cardFields = map[string]bool{
	"pan":        true,
	"month":      true,
	"year":       true,
	"nameOnCard": true,
}

// UnmarshalJSON decodes a card, rejecting any property outside pan, month,
// year and nameOnCard.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !cardFields[name] {
			return &UnexpectedFieldError{Name: name}
		}
	}

	var out Card
	var err error
	if out.PAN, err = scalarString(raw["pan"]); err != nil {
		return &InvalidFieldError{Field: "pan", Reason: "pan must be a string"}
	}
	if out.Month, err = scalarString(raw["month"]); err != nil {
		return &InvalidFieldError{Field: "month", Reason: msgMonth}
	}
	if out.Year, err = scalarString(raw["year"]); err != nil {
		return &InvalidFieldError{Field: "year", Reason: msgYear}
	}
	if out.NameOnCard, err = scalarString(raw["nameOnCard"]); err != nil {
		return &InvalidFieldError{Field: "nameOnCard", Reason: "nameOnCard must be a string"}
	}
	*c = out
	return nil
}

// scalarString reads a JSON string or number as its text.
func scalarString(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return "", nil
	}
	if v[0] == '"' {
		var s string
		err := json.Unmarshal(v, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// ParseCard decodes a JSON card. Empty input and null yield ErrCardRequired.
func ParseCard(data []byte) (*Card, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrCardRequired
	}
	var c Card
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// normalizedCard is the validated form that gets encrypted.
type normalizedCard struct {
	PAN        string `json:"pan"`
	Month      string `json:"month"`
	Year       string `json:"year"`
	NameOnCard string `json:"nameOnCard,omitempty"`
}

// normalize validates c and returns its canonical form. Checks run pan,
// month, year and stop at the first failure.
func (c *Card) normalize(minPAN int) (*normalizedCard, error) {
	if c == nil || *c == (Card{}) {
		return nil, ErrCardRequired
	}

	pan := digitsOnly(c.PAN)
	panMsg := fmt.Sprintf("pan should have at least %d digits", minPAN)
	if err := validation.Validate(pan,
		validation.Required.Error(panMsg),
		validation.Length(minPAN, 0).Error(panMsg),
	); err != nil {
		return nil, &InvalidFieldError{Field: "pan", Reason: err.Error()}
	}

	month, err := strconv.Atoi(strings.TrimSpace(c.Month))
	if err != nil {
		return nil, &InvalidFieldError{Field: "month", Reason: msgMonth}
	}
	if err := validation.Validate(month,
		validation.Required.Error(msgMonth),
		validation.Min(1).Error(msgMonth),
		validation.Max(12).Error(msgMonth),
	); err != nil {
		return nil, &InvalidFieldError{Field: "month", Reason: err.Error()}
	}

	year, err := strconv.Atoi(strings.TrimSpace(c.Year))
	if err != nil {
		return nil, &InvalidFieldError{Field: "year", Reason: msgYear}
	}
	if year >= 1 && year <= 99 {
		year += 2000
	}
	if err := validation.Validate(year,
		validation.Required.Error(msgYear),
		validation.Min(2001).Error(msgYear),
	); err != nil {
		return nil, &InvalidFieldError{Field: "year", Reason: err.Error()}
	}

	return &normalizedCard{
		PAN:        pan,
		Month:      strconv.Itoa(month),
		Year:       strconv.Itoa(year),
		NameOnCard: c.NameOnCard,
	}, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
