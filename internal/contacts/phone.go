package contacts

import (
	"regexp"
	"strings"
)

// fictitious NANP range XXX-555-01XX, used by placeholder numbers
var fakePhoneRe = regexp.MustCompile(`55501\d{2}$`)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func distinctDigits(digits string) int {
	seen := map[rune]struct{}{}
	for _, r := range digits {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// normalizePhone reduces a raw candidate to its canonical representation.
// North-American 10/11 digit numbers become +1 E.164 values; an existing
// leading plus or 00 prefix is honored; 9-15 digit strings pass through for
// non-NA formats; exactly 7 digits is accepted as a local fragment.
// Repeated-digit placeholders and the fictitious 555-01XX range are rejected.
func normalizePhone(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	hasPlus := strings.HasPrefix(raw, "+")
	digits := digitsOnly(raw)
	if distinctDigits(digits) < 3 {
		return "", false
	}
	if fakePhoneRe.MatchString(digits) {
		return "", false
	}

	switch {
	case hasPlus:
		if len(digits) < 7 || len(digits) > 15 {
			return "", false
		}
		return "+" + digits, true
	case strings.HasPrefix(digits, "00") && len(digits) > 9:
		return "+" + digits[2:], true
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits, true
	case len(digits) == 10:
		return "+1" + digits, true
	case len(digits) >= 9 && len(digits) <= 15:
		return digits, true
	case len(digits) == 7:
		return digits, true
	default:
		return "", false
	}
}

// canonicalKey strips formatting and the leading NA country digit so the
// same number in E.164, 11-digit and 10-digit form shares one dedupe key.
func canonicalKey(normalized string) string {
	digits := digitsOnly(normalized)
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}

// dedupePhones collapses normalized candidates by canonical key, preferring
// E.164 values over bare digit strings, then drops any 7-digit local that is
// a suffix of a retained longer number.
func dedupePhones(cands []string) []string {
	byKey := map[string]string{}
	var keys []string
	for _, cand := range cands {
		key := canonicalKey(cand)
		if existing, ok := byKey[key]; ok {
			if !strings.HasPrefix(existing, "+") && strings.HasPrefix(cand, "+") {
				byKey[key] = cand
			}
			continue
		}
		byKey[key] = cand
		keys = append(keys, key)
	}

	var out []string
	for _, key := range keys {
		if len(key) == 7 && hasLongerSuffixMatch(key, keys) {
			continue
		}
		out = append(out, byKey[key])
	}
	return out
}

func hasLongerSuffixMatch(short string, keys []string) bool {
	for _, k := range keys {
		if len(k) > len(short) && strings.HasSuffix(k, short) {
			return true
		}
	}
	return false
}
