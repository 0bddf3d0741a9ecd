package disk_test

import (
	"testing"

	"github.com/fatforensics/fat16recover/internal/disk"
	"github.com/stretchr/testify/require"
)

func openSyntheticVolume(t *testing.T) *disk.Volume {
	t.Helper()
	path := buildSyntheticFAT16Image(t)

	vol, err := disk.Open(path, disk.OpenOptions{PartitionIndex: -1})
	require.NoError(t, err)
	t.Cleanup(func() { vol.Close() })
	return vol
}

func TestWalker_BuildsTreeWithDeletedAndSubdirectory(t *testing.T) {
	vol := openSyntheticVolume(t)

	events := make(chan disk.RecoveryEvent, 64)
	w := disk.NewWalker(vol, events)

	var root *disk.RecoveredEntry
	done := make(chan struct{})
	go func() {
		root = w.Walk()
		close(events)
		close(done)
	}()

	var seen []disk.RecoveryEvent
	for ev := range events {
		seen = append(seen, ev)
	}
	<-done

	require.Len(t, root.Children, 3)

	byName := map[string]*disk.RecoveredEntry{}
	for _, c := range root.Children {
		byName[c.Name] = c
	}

	hello, ok := byName["HELLO.TXT"]
	require.True(t, ok)
	require.False(t, hello.IsDir)
	require.False(t, hello.Deleted)
	require.EqualValues(t, 600, hello.Size)

	subdir, ok := byName["SUBDIR"]
	require.True(t, ok)
	require.True(t, subdir.IsDir)
	require.Len(t, subdir.Children, 1)
	require.Equal(t, "INNER.TXT", subdir.Children[0].Name)

	deleted, ok := byName["_OO.TXT"]
	require.True(t, ok)
	require.True(t, deleted.Deleted)
	require.EqualValues(t, 10, deleted.Size)

	require.NotEmpty(t, seen)
}

func TestWalker_EmitsChainForMultiClusterFile(t *testing.T) {
	vol := openSyntheticVolume(t)

	events := make(chan disk.RecoveryEvent, 64)
	w := disk.NewWalker(vol, events)

	go func() {
		w.Walk()
		close(events)
	}()

	var helloEvent disk.RecoveryEvent
	for ev := range events {
		if ev.RelPath == "HELLO.TXT" {
			helloEvent = ev
		}
	}

	require.Equal(t, []uint32{2, 3}, helloEvent.Clusters)
}
