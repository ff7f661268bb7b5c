package usecase_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/webdock/internal/domain/entity"
)

type fakePartitions struct {
	base    string
	mu      sync.Mutex
	wiped   []string
	failFor map[string]bool
}

func (f *fakePartitions) PartitionID(id entity.WorkspaceID, shared bool) string {
	if shared {
		return "persist:shared"
	}
	return "persist:" + string(id)
}

func (f *fakePartitions) Path(partitionID string) (string, error) {
	name, ok := strings.CutPrefix(partitionID, "persist:")
	if !ok {
		return "", errors.New("bad partition")
	}
	return f.base + "/" + name, nil
}

func (f *fakePartitions) Wipe(_ context.Context, partitionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[partitionID] {
		return errors.New("busy: " + partitionID)
	}
	f.wiped = append(f.wiped, partitionID)
	return nil
}

func (f *fakePartitions) Wiped() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.wiped...)
	sort.Strings(out)
	return out
}

type fakeIcons struct {
	id    string
	err   error
	calls []string
}

func (f *fakeIcons) FetchIcon(_ context.Context, pageURL string) (string, error) {
	f.calls = append(f.calls, pageURL)
	return f.id, f.err
}

// memFS is an in-memory port.FileSystem keyed by path.
type memFS struct {
	sizes     map[string]int64
	removed   []string
	removeErr map[string]error
}

func (m *memFS) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.sizes[path]
	return ok, nil
}

func (m *memFS) IsDirectory(context.Context, string) (bool, error) { return true, nil }

func (m *memFS) GetSize(_ context.Context, path string) (int64, error) {
	return m.sizes[path], nil
}

func (m *memFS) RemoveAll(_ context.Context, path string) error {
	if err := m.removeErr[path]; err != nil {
		return err
	}
	delete(m.sizes, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *memFS) WriteFile(_ context.Context, path string, data []byte) error {
	m.sizes[path] = int64(len(data))
	return nil
}

type fakeXDG struct{ root string }

func (x fakeXDG) ConfigDir() (string, error)     { return x.root + "/config", nil }
func (x fakeXDG) DataDir() (string, error)       { return x.root + "/data", nil }
func (x fakeXDG) StateDir() (string, error)      { return x.root + "/state", nil }
func (x fakeXDG) CacheDir() (string, error)      { return x.root + "/cache", nil }
func (x fakeXDG) PartitionsDir() (string, error) { return x.root + "/data/partitions", nil }
func (x fakeXDG) IconsDir() (string, error)      { return x.root + "/data/icons", nil }
func (x fakeXDG) FilterListsDir() (string, error) {
	return x.root + "/cache/filters", nil
}
func (x fakeXDG) DownloadsDir() (string, error) { return x.root + "/Downloads", nil }
