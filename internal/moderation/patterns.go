// Package moderation screens member-written profile text before it is
// stored. Bios are shown to strangers, so contact details and
// promotional copy are rejected outright.
package moderation

import (
	"fmt"
	"regexp"
	"unicode"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

// Rule names reported by Check.
const (
	RuleRepeatedChars = "excessive_repeated_chars"
	RuleURL           = "contains_url"
	RuleEmail         = "contains_email"
	RulePhone         = "contains_phone"
	RuleMoney         = "suspicious_money_mention"
	RulePromotional   = "suspicious_promotional_content"
	RuleCaps          = "excessive_caps"
)

const maxRepeatedChars = 5

var (
	urlPattern   = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Korean mobile/landline numbers as well as generic 3-3-4 numbers.
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?0?\d{2,3}\)?[-.\s]?\d{3,4}[-.\s]?\d{4}`)

	moneyPattern = regexp.MustCompile(`(?i)(\bfree\b|\bwinner\b|\bprize\b|\bcash\b|\$\d+|\d+\s*(dollars?|usd)|무료\s*증정|당첨|고수익|대출)`)
	scamPattern  = regexp.MustCompile(`(?i)(click here|buy now|limited time|act now|risk free|no obligation|지금\s*클릭|투자\s*권유|원금\s*보장)`)
)

type rule struct {
	name  string
	match func(string) bool
}

var rules = []rule{
	{RuleRepeatedChars, func(s string) bool { return hasExcessiveRepeatedChars(s, maxRepeatedChars) }},
	{RuleURL, urlPattern.MatchString},
	{RuleEmail, emailPattern.MatchString},
	{RulePhone, phonePattern.MatchString},
	{RuleMoney, moneyPattern.MatchString},
	{RulePromotional, scamPattern.MatchString},
	{RuleCaps, hasExcessiveCaps},
}

// Check reports whether content trips a rule, and which one fired first.
func Check(content string) (bool, string) {
	for _, r := range rules {
		if r.match(content) {
			return true, r.name
		}
	}
	return false, ""
}

// Validate wraps ErrContentRejected with the offending rule.
func Validate(content string) error {
	if flagged, name := Check(content); flagged {
		return fmt.Errorf("%w: %s", apperrors.ErrContentRejected, name)
	}
	return nil
}

func hasExcessiveRepeatedChars(s string, max int) bool {
	count := 0
	var last rune = -1

	for _, ch := range s {
		if unicode.IsSpace(ch) {
			count = 0
			last = -1
			continue
		}
		if ch == last {
			count++
			if count > max {
				return true
			}
		} else {
			count = 1
			last = ch
		}
	}

	return false
}

// hasExcessiveCaps flags text of at least 10 letters that is over 70%
// upper case. Hangul has no case, so Korean text never trips it.
func hasExcessiveCaps(s string) bool {
	caps, letters := 0, 0
	for _, ch := range s {
		if unicode.IsLetter(ch) {
			letters++
			if unicode.IsUpper(ch) {
				caps++
			}
		}
	}

	if letters < 10 {
		return false
	}

	return float64(caps)/float64(letters) > 0.7
}
