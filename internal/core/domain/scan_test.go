package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScan_Defaults(t *testing.T) {
	s, err := NewScan(1, "office sweep", "192.168.1.0/24", "")
	require.NoError(t, err)

	assert.Equal(t, ScanTypeStandard, s.ScanType)
	assert.Equal(t, ScanStatusPending, s.Status)
	assert.Nil(t, s.EndTime)
	assert.False(t, s.StartTime.IsZero())
}

func TestNewScan_Validation(t *testing.T) {
	_, err := NewScan(0, "n", "10.0.0.0/8", ScanTypeDeep)
	assert.ErrorIs(t, err, ErrScanOwnerMissing)

	_, err = NewScan(1, "", "10.0.0.0/8", ScanTypeDeep)
	assert.ErrorIs(t, err, ErrEmptyScanName)

	_, err = NewScan(1, "n", "", ScanTypeDeep)
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = NewScan(1, "n", "10.0.0.0/8", ScanType("quick"))
	assert.ErrorIs(t, err, ErrInvalidScanType)
}

func TestScanTransitions(t *testing.T) {
	s, err := NewScan(1, "solar audit", "10.10.0.0/16", ScanTypeSolarFocused)
	require.NoError(t, err)

	// pending -> completed is not allowed
	assert.ErrorIs(t, s.TransitionTo(ScanStatusCompleted), ErrInvalidTransition)

	require.NoError(t, s.TransitionTo(ScanStatusRunning))
	assert.Equal(t, ScanStatusRunning, s.Status)
	assert.Nil(t, s.EndTime)

	// running -> pending is not allowed
	assert.ErrorIs(t, s.TransitionTo(ScanStatusPending), ErrInvalidTransition)

	require.NoError(t, s.TransitionTo(ScanStatusCompleted))
	assert.True(t, s.Terminal())
	require.NotNil(t, s.EndTime)

	// Terminal states are final.
	assert.ErrorIs(t, s.TransitionTo(ScanStatusRunning), ErrInvalidTransition)
	assert.ErrorIs(t, s.TransitionTo(ScanStatusFailed), ErrInvalidTransition)
}

func TestScanTransitions_Failed(t *testing.T) {
	s, _ := NewScan(1, "n", "10.0.0.0/8", ScanTypeStandard)
	require.NoError(t, s.TransitionTo(ScanStatusRunning))
	require.NoError(t, s.TransitionTo(ScanStatusFailed))
	assert.True(t, s.Terminal())
	assert.NotNil(t, s.EndTime)
}

func TestScanTransitions_UnknownStatus(t *testing.T) {
	s, _ := NewScan(1, "n", "10.0.0.0/8", ScanTypeStandard)
	assert.ErrorIs(t, s.TransitionTo(ScanStatus("paused")), ErrInvalidStatus)
}
