package chapters

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/chapmark/internal/fsutil"
	"codeberg.org/snonux/chapmark/internal/timecode"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	video := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(video, []byte("x"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	store, err := Open(video)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func reload(t *testing.T, s *Store) Project {
	t.Helper()
	project, err := ReadProject(s.Path())
	if err != nil {
		t.Fatalf("ReadProject: %v", err)
	}
	return project
}

func TestOpenFreshVideo(t *testing.T) {
	store := openStore(t)
	if len(store.Chapters()) != 0 || len(store.Casting()) != 0 {
		t.Fatalf("expected empty store")
	}
	if store.Path() != PathFor(store.VideoPath()) {
		t.Fatalf("unexpected sidecar path %s", store.Path())
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected no sidecar written on open")
	}
}

func TestOpenUnreadableSidecarDegrades(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(PathFor(video), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	store, err := Open(video)
	var access *fsutil.AccessError
	if !errors.As(err, &access) {
		t.Fatalf("expected access error, got %v", err)
	}
	if store == nil || len(store.Chapters()) != 0 {
		t.Fatalf("expected usable empty store")
	}
}

func TestAddChapterScenario(t *testing.T) {
	store := openStore(t)
	c, err := store.AddChapter(5, 120)
	if err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if c.Title != "Chapter 1" || c.Start != 5 || c.End != 120 || len(c.Subs) != 0 {
		t.Fatalf("unexpected chapter %+v", c)
	}
	project := reload(t, store)
	if len(project.Chapters) != 1 || project.Chapters[0].End != 120 {
		t.Fatalf("expected chapter persisted, got %+v", project.Chapters)
	}
	if err := store.Retime(c, FieldEnd, "2:00"); err != nil {
		t.Fatalf("Retime: %v", err)
	}
	if c.End != 120 {
		t.Fatalf("expected end 120, got %d", c.End)
	}
	if reload(t, store).Chapters[0].End != 120 {
		t.Fatalf("expected end persisted")
	}
}

func TestAddChapterUnknownDuration(t *testing.T) {
	store := openStore(t)
	c, err := store.AddChapter(42, 0)
	if err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if c.End != 52 {
		t.Fatalf("expected end 52, got %d", c.End)
	}
	c, _ = store.AddChapter(7, -1)
	if c.End != 17 {
		t.Fatalf("expected end 17 for negative duration, got %d", c.End)
	}
}

func TestAddChapterKeepsTopLevelSorted(t *testing.T) {
	store := openStore(t)
	if _, err := store.AddChapter(60, 100); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if _, err := store.AddChapter(10, 100); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if _, err := store.AddChapter(10, 100); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	got := store.Chapters()
	if got[0].Start != 10 || got[1].Start != 10 || got[2].Start != 60 {
		t.Fatalf("expected ascending starts, got %d %d %d", got[0].Start, got[1].Start, got[2].Start)
	}
	if got[0].Title != "Chapter 2" || got[1].Title != "Chapter 3" {
		t.Fatalf("expected stable order among ties, got %s %s", got[0].Title, got[1].Title)
	}
}

func TestAddSubchapterAttachTarget(t *testing.T) {
	store := openStore(t)
	top, _ := store.AddChapter(10, 90)
	sub, err := store.AddSubchapter(top)
	if err != nil {
		t.Fatalf("AddSubchapter: %v", err)
	}
	if sub.Parent() != top || sub.Title != "Chapter 1" || sub.Start != 10 || sub.End != 90 {
		t.Fatalf("unexpected sub %+v", sub)
	}
	sibling, err := store.AddSubchapter(sub)
	if err != nil {
		t.Fatalf("AddSubchapter on sub: %v", err)
	}
	if sibling.Parent() != top || len(top.Subs) != 2 || len(sub.Subs) != 0 {
		t.Fatalf("expected sibling under the same parent")
	}
	if sibling.Title != "Chapter 2" {
		t.Fatalf("expected ordinal within subs, got %s", sibling.Title)
	}
	if nested := reload(t, store).Chapters[0]; len(nested.Subs) != 2 {
		t.Fatalf("expected subs persisted")
	}
	if c, err := store.AddSubchapter(nil); c != nil || err != nil {
		t.Fatalf("expected nil target no-op")
	}
}

func TestAddSubchapterDoesNotResort(t *testing.T) {
	store := openStore(t)
	top, _ := store.AddChapter(0, 100)
	first, _ := store.AddSubchapter(top)
	if err := store.Retime(first, FieldStart, "50"); err != nil {
		t.Fatalf("Retime: %v", err)
	}
	second, _ := store.AddSubchapter(top)
	if top.Subs[0] != first || top.Subs[1] != second {
		t.Fatalf("expected subs appended in order")
	}
}

func TestRemoveSubchapterLeavesParent(t *testing.T) {
	store := openStore(t)
	top, _ := store.AddChapter(10, 90)
	a, _ := store.AddSubchapter(top)
	b, _ := store.AddSubchapter(top)
	c, _ := store.AddSubchapter(top)
	if err := store.Remove(b); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if top.Start != 10 || top.End != 90 {
		t.Fatalf("parent bounds changed")
	}
	if len(top.Subs) != 2 || top.Subs[0] != a || top.Subs[1] != c {
		t.Fatalf("sibling order changed")
	}
	if len(reload(t, store).Chapters[0].Subs) != 2 {
		t.Fatalf("expected removal persisted")
	}
}

func TestRemoveTopLevel(t *testing.T) {
	store := openStore(t)
	a, _ := store.AddChapter(0, 10)
	b, _ := store.AddChapter(20, 30)
	if err := store.Remove(a); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(store.Chapters()) != 1 || store.Chapters()[0] != b {
		t.Fatalf("unexpected chapters after remove")
	}
	if err := store.Remove(a); err != nil {
		t.Fatalf("expected second remove to be a no-op, got %v", err)
	}
	if err := store.Remove(nil); err != nil {
		t.Fatalf("expected nil remove to be a no-op")
	}
}

func TestRenameIgnoresBlank(t *testing.T) {
	store := openStore(t)
	c, _ := store.AddChapter(0, 10)
	if err := store.Rename(c, "   "); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if c.Title != "Chapter 1" {
		t.Fatalf("expected title kept, got %q", c.Title)
	}
	if err := store.Rename(c, "  Opening  "); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if c.Title != "Opening" {
		t.Fatalf("expected trimmed title, got %q", c.Title)
	}
}

func TestRetimeRejectsBadText(t *testing.T) {
	store := openStore(t)
	c, _ := store.AddChapter(5, 10)
	err := store.Retime(c, FieldStart, "abc")
	var invalid *timecode.InvalidTimeError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTimeError, got %v", err)
	}
	if c.Start != 5 {
		t.Fatalf("expected start unchanged")
	}
	if err := store.Retime(c, FieldEnd, "1:2:3:4"); err == nil {
		t.Fatalf("expected format error")
	}
	if err := store.Retime(c, FieldStart, "100"); err != nil || c.Start != 60 {
		t.Fatalf("expected lenient retime to 60, got %d (%v)", c.Start, err)
	}
	if c.End != 10 {
		t.Fatalf("expected no ordering validation, end=%d", c.End)
	}
}

func TestCastOperations(t *testing.T) {
	store := openStore(t)
	idx, err := store.AddCast("")
	if err != nil || idx != 0 {
		t.Fatalf("AddCast: %d %v", idx, err)
	}
	if store.Casting()[0] != DefaultCastName {
		t.Fatalf("expected default name")
	}
	_, _ = store.AddCast("Ana")
	_, _ = store.AddCast("Ana")
	if err := store.RenameCast(0, " "); err != nil || store.Casting()[0] != DefaultCastName {
		t.Fatalf("expected blank rename ignored")
	}
	if err := store.RenameCast(0, "  Bea "); err != nil {
		t.Fatalf("RenameCast: %v", err)
	}
	if store.Casting()[0] != "Bea" {
		t.Fatalf("expected trimmed cast name, got %q", store.Casting()[0])
	}
	if err := store.RemoveCast(1); err != nil {
		t.Fatalf("RemoveCast: %v", err)
	}
	if err := store.RemoveCast(9); err != nil {
		t.Fatalf("expected out-of-range remove ignored")
	}
	got := reload(t, store).Casting
	if len(got) != 2 || got[0] != "Bea" || got[1] != "Ana" {
		t.Fatalf("unexpected persisted casting %v", got)
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "sub", "clip.mp4")
	store, err := Open(video)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	c, err := store.AddChapter(3, 0)
	var access *fsutil.AccessError
	if !errors.As(err, &access) {
		t.Fatalf("expected write failure, got %v", err)
	}
	if c == nil || len(store.Chapters()) != 1 {
		t.Fatalf("expected in-memory chapter retained")
	}
	if err := os.MkdirAll(filepath.Dir(video), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
}

func TestFlattenOrder(t *testing.T) {
	store := openStore(t)
	a, _ := store.AddChapter(0, 10)
	_, _ = store.AddChapter(20, 30)
	_, _ = store.AddSubchapter(a)
	rows := store.Rows()
	if len(rows) != 3 || rows[0].Chapter != a || rows[1].Depth != 1 || rows[2].Chapter.Start != 20 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}
