package ravelin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() *Card {
	return &Card{PAN: "4111 1111 1111 1111", Month: "4", Year: "28"}
}

func TestParseCard(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		c, err := ParseCard([]byte(`{"pan":"4111111111111111","month":"04","year":"2028","nameOnCard":"A Cardholder"}`))
		require.NoError(t, err)
		assert.Equal(t, &Card{PAN: "4111111111111111", Month: "04", Year: "2028", NameOnCard: "A Cardholder"}, c)
	})

	t.Run("numbers", func(t *testing.T) {
		c, err := ParseCard([]byte(`{"pan":"4111111111111111","month":4,"year":28}`))
		require.NoError(t, err)
		assert.Equal(t, "4", c.Month)
		assert.Equal(t, "28", c.Year)
	})

	t.Run("empty and null", func(t *testing.T) {
		for _, in := range []string{"", "  ", "null"} {
			_, err := ParseCard([]byte(in))
			assert.ErrorIs(t, err, ErrCardRequired, "input %q", in)
		}
	})

	t.Run("unexpected property", func(t *testing.T) {
		_, err := ParseCard([]byte(`{"pan":"4111111111111111","month":"4","year":"28","cvv":"123"}`))
		var fieldErr *UnexpectedFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "cvv", fieldErr.Name)
		assert.EqualError(t, err, "unexpected property cvv")
	})

	t.Run("first unexpected property in name order", func(t *testing.T) {
		_, err := ParseCard([]byte(`{"zip":"1","cvv":"123","pan":"4111111111111111"}`))
		var fieldErr *UnexpectedFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "cvv", fieldErr.Name)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := ParseCard([]byte(`{"pan":"4111111111111111","month":[4],"year":"28"}`))
		var fieldErr *InvalidFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "month", fieldErr.Field)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := ParseCard([]byte(`"4111111111111111"`))
		assert.Error(t, err)
	})
}

func TestCardNormalize_Required(t *testing.T) {
	var nilCard *Card
	_, err := nilCard.normalize(DefaultMinPANDigits)
	assert.ErrorIs(t, err, ErrCardRequired)

	_, err = (&Card{}).normalize(DefaultMinPANDigits)
	assert.ErrorIs(t, err, ErrCardRequired)
}

func TestCardNormalize_PAN(t *testing.T) {
	tests := []struct {
		name    string
		pan     string
		min     int
		want    string
		wantErr string
	}{
		{name: "twelve digits", pan: "411111111111", min: 12, want: "411111111111"},
		{name: "separators stripped", pan: "4111-1111 1111.1111", min: 12, want: "4111111111111111"},
		{name: "eleven digits", pan: "41111111111", min: 12, wantErr: "pan should have at least 12 digits"},
		{name: "letters do not count", pan: "4111x1111x111", min: 12, wantErr: "pan should have at least 12 digits"},
		{name: "empty", pan: "", min: 12, wantErr: "pan should have at least 12 digits"},
		{name: "thirteen required", pan: "411111111111", min: 13, wantErr: "pan should have at least 13 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCard()
			c.PAN = tt.pan
			got, err := c.normalize(tt.min)
			if tt.wantErr != "" {
				var fieldErr *InvalidFieldError
				require.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, "pan", fieldErr.Field)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.PAN)
		})
	}
}

func TestCardNormalize_Month(t *testing.T) {
	tests := []struct {
		month string
		want  string
		ok    bool
	}{
		{"1", "1", true},
		{"12", "12", true},
		{"04", "4", true},
		{" 7 ", "7", true},
		{"0", "", false},
		{"13", "", false},
		{"-1", "", false},
		{"", "", false},
		{"april", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			c := validCard()
			c.Month = tt.month
			got, err := c.normalize(DefaultMinPANDigits)
			if !tt.ok {
				var fieldErr *InvalidFieldError
				require.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, "month", fieldErr.Field)
				assert.EqualError(t, err, "month should be in the range 1-12")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Month)
		})
	}
}

func TestCardNormalize_Year(t *testing.T) {
	tests := []struct {
		year string
		want string
		ok   bool
	}{
		{"20", "2020", true},
		{"1", "2001", true},
		{"99", "2099", true},
		{"2001", "2001", true},
		{"2035", "2035", true},
		{"2000", "", false},
		{"0", "", false},
		{"100", "", false},
		{"1999", "", false},
		{"-5", "", false},
		{"", "", false},
		{"next", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			c := validCard()
			c.Year = tt.year
			got, err := c.normalize(DefaultMinPANDigits)
			if !tt.ok {
				var fieldErr *InvalidFieldError
				require.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, "year", fieldErr.Field)
				assert.EqualError(t, err, "year should be in the 21st century")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Year)
		})
	}
}

func TestCardNormalize_Order(t *testing.T) {
	c := &Card{PAN: "1", Month: "13", Year: "1999"}
	_, err := c.normalize(DefaultMinPANDigits)
	var fieldErr *InvalidFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "pan", fieldErr.Field)

	c.PAN = "411111111111"
	_, err = c.normalize(DefaultMinPANDigits)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "month", fieldErr.Field)
}

func TestCardNormalize_CanonicalJSON(t *testing.T) {
	got, err := validCard().normalize(DefaultMinPANDigits)
	require.NoError(t, err)
	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `{"pan":"4111111111111111","month":"4","year":"2028"}`, string(b))

	c := validCard()
	c.NameOnCard = "A Cardholder"
	got, err = c.normalize(DefaultMinPANDigits)
	require.NoError(t, err)
	b, err = json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `{"pan":"4111111111111111","month":"4","year":"2028","nameOnCard":"A Cardholder"}`, string(b))
}
