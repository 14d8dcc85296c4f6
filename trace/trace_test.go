package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeginZeroesStaleFields(t *testing.T) {
	var b Buffer
	b.RecordXRegWrite(3)
	b.RecordCSRWrite(0x340)
	b.Begin(0x1000)

	assert.True(t, b.Valid)
	assert.EqualValues(t, 0x1000, b.PC)
	assert.EqualValues(t, 0, b.XRegMask, "stale write mask must not leak across steps")
	assert.Equal(t, 0, b.CSRCount)
}

func TestXRegMaskNeverSetsBitZero(t *testing.T) {
	var b Buffer
	b.Begin(0)
	b.RecordXRegWrite(1)
	assert.EqualValues(t, 0b10, b.XRegMask)
}

func TestCSRWriteOrderedAndCounted(t *testing.T) {
	var b Buffer
	b.Begin(0)
	b.RecordCSRWrite(0x340)
	b.RecordCSRWrite(0x300)
	assert.Equal(t, 2, b.CSRCount)
	assert.EqualValues(t, [MaxCSRWrite]uint16{0x340, 0x300, 0, 0}, b.CSRIndices)
}

func TestCSRWriteDropsBeyondCapacity(t *testing.T) {
	var b Buffer
	b.Begin(0)
	for i := 0; i < MaxCSRWrite+2; i++ {
		b.RecordCSRWrite(uint16(i))
	}
	assert.Equal(t, MaxCSRWrite, b.CSRCount)
}
