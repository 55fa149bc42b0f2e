package member

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fizato/federation/internal/association"
)

// sequenceWidth is the zero-padded width of the per-association sequence
const sequenceWidth = 4

// FormatCardNumber builds a card number such as 0001AE
func FormatCardNumber(sequence int64, code string) string {
	return fmt.Sprintf("%0*d%s", sequenceWidth, sequence, code)
}

// Sequence returns the leading numeric part of a card number, or 0 when it has none
func Sequence(cardNumber string) int64 {
	end := 0
	for end < len(cardNumber) && cardNumber[end] >= '0' && cardNumber[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(cardNumber[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// AssignCardNumber gives m its card number if it has none yet. The sequence
// is the number of members already in the association plus one, raised past
// the highest sequence in use when deletions left a gap. Both repositories
// should be bound to the transaction that inserts m.
func AssignCardNumber(
	ctx context.Context,
	repo *Repository,
	associations *association.Repository,
	a *association.Association,
	m *Member,
) (string, error) {
	if m.CardNumber != "" {
		return m.CardNumber, nil
	}

	code, err := association.DeriveCode(ctx, associations, a)
	if err != nil {
		return "", err
	}

	numbers, err := repo.CardNumbersOf(ctx, a.ID)
	if err != nil {
		return "", err
	}
	next := int64(len(numbers)) + 1
	for _, number := range numbers {
		if seq := Sequence(number); seq >= next {
			next = seq + 1
		}
	}

	m.CardNumber = FormatCardNumber(next, code)
	return m.CardNumber, nil
}
