package association

import (
	"context"
	"strings"
	"unicode"

	"github.com/fizato/federation/internal/apperr"
)

// CodeLength is the length of an association code, the suffix of every card number
const CodeLength = 2

const fallbackSuffixes = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrCodesExhausted is returned when every two character code is already in use
var ErrCodesExhausted = apperr.New(apperr.ErrConflict, "no free association code left")

// Letters returns the alphabetic characters of name, uppercased, in order
func Letters(name string) []rune {
	var letters []rune
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
		}
	}
	return letters
}

// Candidates returns the letter-pair codes tried, in order, before the fallback sweep
func Candidates(letters []rune) []string {
	var codes []string
	if len(letters) >= 2 {
		codes = append(codes, string([]rune{letters[0], letters[1]}))
	}
	if len(letters) >= 3 {
		codes = append(codes, string([]rune{letters[0], letters[2]}))
	}
	if len(letters) >= 4 {
		codes = append(codes,
			string([]rune{letters[0], letters[3]}),
			string([]rune{letters[1], letters[3]}),
		)
	}
	return codes
}

// fallbackCodes sweeps the first letter (X when there is none) against every
// digit and letter, then every other prefix letter the same way
func fallbackCodes(letters []rune) []string {
	first := 'X'
	if len(letters) > 0 {
		first = letters[0]
	}
	prefixes := []rune{first}
	for p := 'A'; p <= 'Z'; p++ {
		if p != first {
			prefixes = append(prefixes, p)
		}
	}
	codes := make([]string, 0, len(prefixes)*len(fallbackSuffixes))
	for _, p := range prefixes {
		for _, s := range fallbackSuffixes {
			codes = append(codes, string([]rune{p, s}))
		}
	}
	return codes
}

// PickCode returns the first candidate code for name that is not in taken
func PickCode(name string, taken map[string]bool) (string, error) {
	letters := Letters(name)
	for _, code := range Candidates(letters) {
		if !taken[code] {
			return code, nil
		}
	}
	for _, code := range fallbackCodes(letters) {
		if !taken[code] {
			return code, nil
		}
	}
	return "", ErrCodesExhausted
}

// DeriveCode computes the code of a using the card numbers already assigned to
// members of the other associations. It reads through repo, so passing a
// transaction-bound repository keeps the derivation inside that transaction.
func DeriveCode(ctx context.Context, repo *Repository, a *Association) (string, error) {
	numbers, err := repo.CardNumbersOutside(ctx, a.ID)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(numbers))
	for _, number := range numbers {
		if suffix := CodeSuffix(number); suffix != "" {
			taken[suffix] = true
		}
	}
	return PickCode(a.Name, taken)
}

// CodeSuffix returns the association code part of a card number
func CodeSuffix(cardNumber string) string {
	runes := []rune(strings.TrimSpace(cardNumber))
	if len(runes) < CodeLength {
		return ""
	}
	return string(runes[len(runes)-CodeLength:])
}
