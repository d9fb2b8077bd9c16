// Package classifier derives grouping keys from free-text transaction
// descriptions and suggests categories from prior user corrections that share
// the same key.
package classifier

import "strings"

// Sentinel prefixes. PrefixUnknown is returned for empty input; PrefixCCAutopay
// groups credit-card autopay debits regardless of issuer wording.
const (
	PrefixUnknown   = "UNKNOWN"
	PrefixCCAutopay = "cc_autopay"
)

// maxPrefixLen caps marker and merchant prefixes so that one long free-text
// description cannot produce an unshareable key.
const maxPrefixLen = 50

// bankMarkers are substrings that identify a bank-generated statement line
// rather than a merchant description. Matching is case-insensitive because
// ExtractPrefix lowercases its input first.
var bankMarkers = []string{
	"imps", "neft", "rtgs", "upi", "ach", "nach", "ecs", "emi",
	"atm", "atw", "nwd", "cwdr", "cshw", "pos", "vps", "ips",
	"mmt", "inf", "inb", "vin", "bil/", "billpay", "billdesk",
	"payu", "razorpay", "razp", "gsttax", "tds", "int.pd", "int pd",
	"intpd", "si-", "si/", "std instr", "standing instr", "autopay",
	"autodebit", "auto debit", "mandate", "clg/", "chq", "cheque",
	"dd issued", "ft/", "fund trf", "funds transfer", "sweep",
	"rev-", "reversal", "refund", "chrg", "charges", "lien",
}

// ExtractPrefix maps a free-text transaction description to a coarse grouping
// key. It is deterministic and total: every input, including the empty string,
// yields a non-empty key. Input is lowercased before any rule runs, so all
// matching is case-insensitive by construction. Rules are tried in order and
// the first match wins.
func ExtractPrefix(description string) string {
	s := strings.ToLower(strings.TrimSpace(description))
	if s == "" {
		return PrefixUnknown
	}

	// Everything after the first pipe or newline is trailing detail.
	if i := strings.IndexAny(s, "|\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return PrefixUnknown
	}

	// UPI slash form: upi/<handle>@<bank>/... -> upi/<handle>
	if rest, ok := strings.CutPrefix(s, "upi/"); ok {
		if i := strings.IndexAny(rest, "@/"); i >= 0 {
			rest = rest[:i]
		}
		return truncate("upi/"+strings.TrimSpace(rest), maxPrefixLen)
	}

	// UPI dash form: the whole first token is the key.
	if strings.HasPrefix(s, "upi-") {
		return truncate(firstToken(s), maxPrefixLen)
	}

	// IMPS via mobile money transfer: marker/subtype/ref/counterparty/ifsc.
	// The reference number in segment 2 is unique per transfer, so the key is
	// built from segments 0, 1 and 3.
	if strings.HasPrefix(s, "mmt/imps/") {
		seg := strings.Split(s, "/")
		if len(seg) >= 4 {
			return truncate(seg[0]+"/"+seg[1]+"/"+strings.TrimSpace(seg[3]), maxPrefixLen)
		}
		return truncate(strings.TrimSpace(strings.Join(seg, "/")), maxPrefixLen)
	}

	// NEFT/RTGS: marker plus the bank reference segment.
	if strings.HasPrefix(s, "neft/") || strings.HasPrefix(s, "rtgs/") {
		seg := strings.SplitN(s, "/", 3)
		if len(seg) >= 2 {
			return truncate(seg[0]+"/"+strings.TrimSpace(seg[1]), maxPrefixLen)
		}
		return truncate(seg[0], maxPrefixLen)
	}

	// ACH: the counterparty lives in the second segment.
	if strings.HasPrefix(s, "ach/") {
		seg := strings.Split(s, "/")
		if len(seg) >= 2 && strings.TrimSpace(seg[1]) != "" {
			return truncate("ach/"+cleanToken(seg[1]), maxPrefixLen)
		}
		return truncate(firstToken(s), maxPrefixLen)
	}

	// Credit-card autopay lines vary wildly across issuers; collapse them all.
	if strings.Contains(s, "cc") && strings.Contains(s, "autopay") {
		return PrefixCCAutopay
	}

	// Any other bank-generated line: key on its first token.
	for _, marker := range bankMarkers {
		if strings.Contains(s, marker) {
			return truncate(firstToken(s), maxPrefixLen)
		}
	}

	// Merchant or card description: the first three words identify the payee.
	words := strings.Fields(s)
	if len(words) > 3 {
		words = words[:3]
	}
	return truncate(strings.Join(words, " "), maxPrefixLen)
}

// PrefixKey builds the composite secondary-lookup key for feedback records.
func PrefixKey(walletID, description string) string {
	return walletID + "#" + ExtractPrefix(description)
}

// firstToken returns the leading run of s up to the first whitespace or pipe.
func firstToken(s string) string {
	if i := strings.IndexAny(s, " \t|"); i >= 0 {
		return s[:i]
	}
	return s
}

// cleanToken trims surrounding whitespace and trailing punctuation artifacts
// left behind by statement formatting.
func cleanToken(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "-_.:,")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
