package diskspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckAvailableRejectsAbsurdlyLargeRequirement(t *testing.T) {
	// No real volume has an exabyte free; this must fail regardless of
	// the machine the test runs on.
	err := CheckAvailable(t.TempDir(), 1<<60)
	require.Error(t, err)

	var insufficient *ErrInsufficientSpace
	require.ErrorAs(t, err, &insufficient)
	require.Contains(t, err.Error(), "need")
}

func TestCheckAvailableAcceptsTrivialRequirement(t *testing.T) {
	err := CheckAvailable(t.TempDir(), 1)
	require.NoError(t, err)
}

func TestReportReturnsHumanReadableUsage(t *testing.T) {
	usage, err := Report(t.TempDir())
	require.NoError(t, err)
	require.NotEmpty(t, usage.Free)
	require.NotEmpty(t, usage.Total)
}
