package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/parser"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "uploads"), parser.NewRegistry())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return s
}

func TestSave_NamesFileWithTimestamp(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Save("strategy.txt", []byte("We propose a new policy."))
	require.NoError(t, err)
	assert.Equal(t, "strategy_20240309_140507", doc.ID)
	assert.Equal(t, filepath.Join(s.Dir(), "strategy_20240309_140507.txt"), doc.Path)
	assert.Equal(t, "We propose a new policy.", doc.Content)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "We propose a new policy.", string(data))
}

func TestSave_CollisionGetsSuffix(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Save("a.txt", []byte("one"))
	require.NoError(t, err)
	second, err := s.Save("a.txt", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, "a_20240309_140507_1", second.ID)
}

func TestSave_RejectsBadNames(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name string
		file string
		want error
	}{
		{"empty", "", ErrInvalidName},
		{"dot", ".", ErrInvalidName},
		{"hidden", ".env", ErrHidden},
		{"unsupported", "image.png", parser.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(tt.file, []byte("x"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSave_StripsDirectories(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Save("../../escape.txt", []byte("text"))
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), filepath.Dir(doc.Path))
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "café", Decode([]byte("café")))
	assert.Equal(t, "policy", Decode(append([]byte{0xEF, 0xBB, 0xBF}, "policy"...)))
	assert.Equal(t, "café", Decode([]byte{'c', 'a', 'f', 0xE9}))
}

func TestListAndLoadAll(t *testing.T) {
	s := newTestStore(t)
	dir := s.Dir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("Second document."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# Title\n\nBody."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.bin"), []byte{0, 1}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	paths, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.bin"),
	}, paths)

	docs, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Contains(t, docs[0].Content, "HEADERS:\nTitle")
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "Second document.", docs[1].Content)
}

func TestLoad_Hidden(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(filepath.Join(s.Dir(), ".secret.txt"))
	assert.ErrorIs(t, err, ErrHidden)
}

func TestLoad_Missing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(filepath.Join(s.Dir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_ConcurrentSameNameKeepsEveryUpload(t *testing.T) {
	s := newTestStore(t)
	const n = 32

	start := make(chan struct{})
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			doc, err := s.Save("report.txt", []byte("We propose a policy."))
			ids[i], errs[i] = doc.ID, err
		}()
	}
	close(start)
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for i := range n {
		require.NoError(t, errs[i])
		seen[ids[i]] = struct{}{}
	}
	assert.Len(t, seen, n)

	paths, err := s.List()
	require.NoError(t, err)
	assert.Len(t, paths, n)
}

func failingRegistry() *parser.Registry {
	r := parser.NewRegistry()
	r.Register(".bad", parser.Func(func(string) (parser.Sections, error) {
		return nil, errors.New("cannot parse")
	}))
	return r
}

func TestSave_ParseFailureWritesNothing(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "uploads"), failingRegistry())
	require.NoError(t, err)

	_, err = s.Save("notes.bad", []byte("anything"))
	require.Error(t, err)

	paths, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLoadAll_SkipsFilesThatFailToLoad(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "uploads"), failingRegistry())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.bad"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "good.txt"), []byte("We propose a policy."), 0o644))

	docs, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].ID)
}
