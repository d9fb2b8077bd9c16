package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "empty input",
			description: "",
			want:        PrefixUnknown,
		},
		{
			name:        "whitespace only",
			description: "   \t ",
			want:        PrefixUnknown,
		},
		{
			name:        "pipe with nothing before it",
			description: "| Ref 12345",
			want:        PrefixUnknown,
		},
		{
			name:        "upi slash form keeps handle only",
			description: "UPI/johndoe@upibank/Payment for lunch",
			want:        "upi/johndoe",
		},
		{
			name:        "upi slash form with slash-separated handle",
			description: "upi/merchant123/order 9981",
			want:        "upi/merchant123",
		},
		{
			name:        "upi dash form keeps first token",
			description: "UPI-AMAZON PAY INDIA 202401",
			want:        "upi-amazon",
		},
		{
			name:        "imps mobile transfer drops reference segment",
			description: "MMT/IMPS/503200178232/COMPASSION/SBIN0002801",
			want:        "mmt/imps/compassion",
		},
		{
			name:        "imps mobile transfer with too few segments",
			description: "MMT/IMPS/12345",
			want:        "mmt/imps/12345",
		},
		{
			name:        "neft keeps marker and reference segment",
			description: "NEFT/AXISCN0123456789/ACME CORP SALARY",
			want:        "neft/axiscn0123456789",
		},
		{
			name:        "rtgs keeps marker and reference segment",
			description: "RTGS/UTIB0000004/BIG PURCHASE",
			want:        "rtgs/utib0000004",
		},
		{
			name:        "ach keeps cleaned counterparty",
			description: "ACH/VANGUARD DIVIDEND-/12345",
			want:        "ach/vanguard dividend",
		},
		{
			name:        "credit card autopay collapses to sentinel",
			description: "CC AUTOPAY SI-MAD REF 889900",
			want:        PrefixCCAutopay,
		},
		{
			name:        "autopay alone is a bank marker line",
			description: "AUTOPAY MANDATE HDFC0000123",
			want:        "autopay",
		},
		{
			name:        "pos line keys on first token",
			description: "POS 1234XXXX5678 STARBUCKS COFFEE",
			want:        "pos",
		},
		{
			name:        "trailing detail after pipe is dropped",
			description: "SWIGGY ORDER 998877 | Ref 5544332211",
			want:        "swiggy order 998877",
		},
		{
			name:        "merchant fallback takes first three words",
			description: "Uber Rides Amsterdam Trip 42",
			want:        "uber rides amsterdam",
		},
		{
			name:        "short merchant description kept whole",
			description: "Netflix",
			want:        "netflix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPrefix(tt.description))
		})
	}
}

func TestExtractPrefixCaseInsensitive(t *testing.T) {
	inputs := []string{
		"UPI/JohnDoe@upibank/Lunch",
		"MMT/IMPS/503200178232/COMPASSION/SBIN0002801",
		"Neft/Axiscn0123/Acme",
		"Uber Rides Amsterdam",
	}
	for _, in := range inputs {
		assert.Equal(t, ExtractPrefix(strings.ToLower(in)), ExtractPrefix(strings.ToUpper(in)),
			"prefix must not depend on input casing: %q", in)
	}
}

func TestExtractPrefixTotalAndDeterministic(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"|",
		"///",
		"upi/",
		"upi-",
		"ach/",
		"neft/",
		"mmt/imps/",
		strings.Repeat("verylongword ", 20),
		strings.Repeat("x", 500),
		"UPI/someone@bank/note\nsecond line",
	}
	for _, in := range inputs {
		first := ExtractPrefix(in)
		assert.NotEmpty(t, first, "every input must yield a key: %q", in)
		assert.Equal(t, first, ExtractPrefix(in), "must be deterministic: %q", in)
	}
}

func TestPrefixKey(t *testing.T) {
	assert.Equal(t, "w1#upi/johndoe", PrefixKey("w1", "UPI/johndoe@upibank/Lunch"))
	assert.Equal(t, "w2#UNKNOWN", PrefixKey("w2", ""))
}
