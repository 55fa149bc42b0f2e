package member_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fizato/federation/internal/member"
)

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "0001AE", member.FormatCardNumber(1, "AE"))
	assert.Equal(t, "0042CL", member.FormatCardNumber(42, "CL"))
	assert.Equal(t, "12345CL", member.FormatCardNumber(12345, "CL"))
}

func TestSequence(t *testing.T) {
	assert.EqualValues(t, 4, member.Sequence("0004AE"))
	assert.EqualValues(t, 12345, member.Sequence("12345CL"))
	assert.EqualValues(t, 0, member.Sequence("AE"))
	assert.EqualValues(t, 0, member.Sequence(""))
}
