package transfer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/common"
)

func TestSlotHappyPath(t *testing.T) {
	s := NewSlot(KindUpload)
	require.Equal(t, StateIdle, s.State())

	task, err := s.Select(models.ModePublicPool)
	require.NoError(t, err)
	require.Equal(t, StateSelecting, s.State())
	require.Equal(t, KindUpload, task.Kind)

	id, err := s.Start()
	require.NoError(t, err)
	require.Equal(t, task.ID, id)
	require.Equal(t, StateActive, s.State())

	s.ReportProgress(id, 40)
	s.ReportProgress(id, 90)

	rec := &models.FileRecord{AccessCode: "ABC-123"}
	require.True(t, s.Complete(id, rec))
	require.Equal(t, StateSucceeded, s.State())

	snap, ok := s.Snapshot()
	require.True(t, ok)
	require.Equal(t, 90, snap.Progress)
	require.Equal(t, "ABC-123", snap.Record.AccessCode)

	s.Reset()
	require.Equal(t, StateIdle, s.State())
	_, ok = s.Snapshot()
	require.False(t, ok)
}

func TestSlotRejectsSecondTaskWhileActive(t *testing.T) {
	s := NewSlot(KindUpload)

	_, err := s.Select(models.ModePublicPool)
	require.NoError(t, err)
	_, err = s.Start()
	require.NoError(t, err)

	_, err = s.Select(models.ModePrivateVault)
	require.ErrorIs(t, err, common.ErrTransferBusy)
}

func TestSlotRequiresResetAfterTerminal(t *testing.T) {
	s := NewSlot(KindDownload)

	_, err := s.Select(models.ModePublicPool)
	require.NoError(t, err)
	id, err := s.Start()
	require.NoError(t, err)
	require.True(t, s.Fail(id, errors.New("boom")))

	_, err = s.Select(models.ModePublicPool)
	require.ErrorIs(t, err, common.ErrTransferBusy)

	s.Reset()
	_, err = s.Select(models.ModePublicPool)
	require.NoError(t, err)
}

func TestSlotTerminalDeliveredExactlyOnce(t *testing.T) {
	s := NewSlot(KindUpload)
	_, err := s.Select(models.ModePrivateVault)
	require.NoError(t, err)
	id, err := s.Start()
	require.NoError(t, err)

	require.True(t, s.Complete(id, &models.FileRecord{AccessCode: "AAA-111"}))
	require.False(t, s.Complete(id, &models.FileRecord{AccessCode: "BBB-222"}))
	require.False(t, s.Fail(id, errors.New("late failure")))

	snap, _ := s.Snapshot()
	require.Equal(t, "AAA-111", snap.Record.AccessCode)
	require.NoError(t, snap.Err)
}

func TestSlotStaleResultAfterReset(t *testing.T) {
	s := NewSlot(KindUpload)
	_, err := s.Select(models.ModePublicPool)
	require.NoError(t, err)
	id, err := s.Start()
	require.NoError(t, err)

	// The user gives up and resets while the request is in flight.
	s.Reset()

	// The network call resolves later; its result must not resurrect the task.
	require.False(t, s.Complete(id, &models.FileRecord{AccessCode: "ABC-123"}))
	require.Equal(t, StateIdle, s.State())

	// A fresh task is unaffected by reports keyed to the old id.
	_, err = s.Select(models.ModePublicPool)
	require.NoError(t, err)
	id2, err := s.Start()
	require.NoError(t, err)
	s.ReportProgress(id, 99)

	snap, _ := s.Snapshot()
	require.Equal(t, 0, snap.Progress)
	require.True(t, s.Complete(id2, &models.FileRecord{AccessCode: "DEF-456"}))
}

func TestSlotProgressMonotonic(t *testing.T) {
	s := NewSlot(KindUpload)
	_, err := s.Select(models.ModePublicPool)
	require.NoError(t, err)
	id, err := s.Start()
	require.NoError(t, err)

	s.ReportProgress(id, 50)
	s.ReportProgress(id, 30) // regression, dropped
	s.ReportProgress(id, 120)
	s.ReportProgress(id, -1)

	snap, _ := s.Snapshot()
	require.Equal(t, 50, snap.Progress)
}

func TestStartWithoutSelect(t *testing.T) {
	s := NewSlot(KindUpload)
	_, err := s.Start()
	require.ErrorIs(t, err, common.ErrTransferBusy)
}

func TestDefaultMode(t *testing.T) {
	require.Equal(t, models.ModePrivateVault, DefaultMode(true))
	require.Equal(t, models.ModePublicPool, DefaultMode(false))
}
