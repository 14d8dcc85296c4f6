package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestX0AlwaysZero(t *testing.T) {
	s := New()
	s.WriteXReg(0, 0xdeadbeef)
	assert.EqualValues(t, 0, s.XReg(0))
}

func TestWriteXRegRoundTrip(t *testing.T) {
	s := New()
	s.WriteXReg(5, 0x12345678)
	assert.EqualValues(t, 0x12345678, s.XReg(5))
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	s.WriteXReg(3, 1)
	s.WriteFReg(3, 1)
	s.MScratch = 0xdeadbeef
	s.Priv = PrivM
	s.Reset(0x1000)

	assert.EqualValues(t, 0x1000, s.PC)
	assert.EqualValues(t, 0, s.XReg(3))
	assert.EqualValues(t, 0, s.FReg(3))
	assert.EqualValues(t, 0, s.MScratch)
	assert.Equal(t, PrivM, s.Priv)
	assert.Equal(t, PrivM, s.MStatusMPP)
}

func TestCSRScratchRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.WriteCSR(CSRMScratch, 0xdeadbeef))
	v, err := s.ReadCSR(CSRMScratch)
	require.NoError(t, err)
	assert.EqualValues(t, 0xdeadbeef, v)
}

func TestUnimplementedCSRIsHardError(t *testing.T) {
	s := New()
	_, err := s.ReadCSR(0x7ff)
	require.Error(t, err)
	var accessErr *CSRAccessError
	require.ErrorAs(t, err, &accessErr)
	assert.False(t, accessErr.Illegal)
}

func TestRMWCSRReadSetReadClear(t *testing.T) {
	s := New()
	require.NoError(t, s.WriteCSR(CSRMScratch, 0x0f0f))

	old, err := s.RMWCSR(CSRMScratch, CSRReadSet, 0xf000, true)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0f0f, old)
	v, _ := s.ReadCSR(CSRMScratch)
	assert.EqualValues(t, 0xff0f, v)

	old, err = s.RMWCSR(CSRMScratch, CSRReadClear, 0x000f, true)
	require.NoError(t, err)
	assert.EqualValues(t, 0xff0f, old)
	v, _ = s.ReadCSR(CSRMScratch)
	assert.EqualValues(t, 0xff00, v)
}

func TestRMWCSRNoWriteBackStillReads(t *testing.T) {
	s := New()
	require.NoError(t, s.WriteCSR(CSRMScratch, 0x42))
	old, err := s.RMWCSR(CSRMScratch, CSRReadSet, 0xff, false)
	require.NoError(t, err)
	assert.EqualValues(t, 0x42, old)
	v, _ := s.ReadCSR(CSRMScratch)
	assert.EqualValues(t, 0x42, v, "writeBack=false must not modify the csr")
}

func TestMStatusRoundTrip(t *testing.T) {
	s := New()
	s.MStatusMIE = true
	s.MStatusMPIE = true
	s.MStatusMPP = PrivM
	packed := s.MStatus()

	s2 := New()
	s2.SetMStatus(packed)
	assert.True(t, s2.MStatusMIE)
	assert.True(t, s2.MStatusMPIE)
	assert.Equal(t, PrivM, s2.MStatusMPP)
}
