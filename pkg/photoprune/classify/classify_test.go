package classify

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/photoprune/pkg/photoprune/media"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

func rec(path string, size int64) types.FileRecord {
	return media.NewRecord(path, filepath.Base(path), size)
}

func build(records ...types.FileRecord) *Index {
	return Build(slices.Values(records), Options{})
}

func paths(records []types.FileRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

func TestExactDuplicates(t *testing.T) {
	t.Run("two copies keep the first", func(t *testing.T) {
		idx := build(
			rec("/p/2014/a.jpg", 100),
			rec("/p/2015/a.jpg", 100),
		)

		groups := idx.ExactDuplicates()
		require.Len(t, groups, 1)
		assert.Equal(t, CategoryExact, groups[0].Category)
		assert.Equal(t, "a.jpg", groups[0].Key)
		assert.Equal(t, "/p/2014/a.jpg", groups[0].Keep.Path)
		assert.Equal(t, []string{"/p/2015/a.jpg"}, paths(groups[0].Delete))
	})

	t.Run("case-insensitive names", func(t *testing.T) {
		idx := build(
			rec("/p/2014/IMG_1.JPG", 10),
			rec("/p/2016/img_1.jpg", 10),
			rec("/p/2017/Img_1.Jpg", 10),
		)

		groups := idx.ExactDuplicates()
		require.Len(t, groups, 1)
		assert.Equal(t, "/p/2014/IMG_1.JPG", groups[0].Keep.Path)
		assert.Equal(t, []string{"/p/2016/img_1.jpg", "/p/2017/Img_1.Jpg"}, paths(groups[0].Delete))
	})

	t.Run("singletons and different sizes are not duplicates", func(t *testing.T) {
		idx := build(
			rec("/p/2014/a.jpg", 100),
			rec("/p/2015/a.jpg", 101),
			rec("/p/2015/b.jpg", 100),
		)
		assert.Empty(t, idx.ExactDuplicates())
	})

	t.Run("extensions outside the media set are ignored", func(t *testing.T) {
		idx := build(
			rec("/p/2014/notes.txt", 5),
			rec("/p/2015/notes.txt", 5),
		)
		assert.Empty(t, idx.ExactDuplicates())
	})

	t.Run("groups follow first discovery order", func(t *testing.T) {
		idx := build(
			rec("/p/1/z.jpg", 1),
			rec("/p/1/a.jpg", 1),
			rec("/p/2/a.jpg", 1),
			rec("/p/2/z.jpg", 1),
		)
		groups := idx.ExactDuplicates()
		require.Len(t, groups, 2)
		assert.Equal(t, "z.jpg", groups[0].Key)
		assert.Equal(t, "a.jpg", groups[1].Key)
	})
}

func TestExactDuplicates_Property(t *testing.T) {
	records := []types.FileRecord{
		rec("/p/1/a.jpg", 100),
		rec("/p/2/a.jpg", 100),
		rec("/p/3/a.jpg", 100),
		rec("/p/1/b.png", 7),
		rec("/p/3/b.png", 7),
		rec("/p/4/b.png", 8),
		rec("/p/1/c.mov", 1),
	}
	position := make(map[string]int)
	for i, r := range records {
		position[r.Path] = i
	}

	for _, g := range build(records...).ExactDuplicates() {
		for _, d := range g.Delete {
			assert.Equal(t, g.Keep.Name, d.Name)
			assert.Equal(t, g.Keep.Size, d.Size)
			assert.Less(t, position[g.Keep.Path], position[d.Path], "keep must be first discovered")
		}
	}
}

func TestSizeConflicts(t *testing.T) {
	t.Run("keep the largest", func(t *testing.T) {
		idx := build(
			rec("/p/2014/b.jpg", 50),
			rec("/p/2015/b.jpg", 200),
		)

		groups := idx.SizeConflicts()
		require.Len(t, groups, 1)
		assert.Equal(t, CategorySize, groups[0].Category)
		assert.Equal(t, "/p/2015/b.jpg", groups[0].Keep.Path)
		assert.Equal(t, []string{"/p/2014/b.jpg"}, paths(groups[0].Delete))
	})

	t.Run("single distinct size is not a conflict", func(t *testing.T) {
		idx := build(
			rec("/p/2014/b.jpg", 50),
			rec("/p/2015/b.jpg", 50),
		)
		assert.Empty(t, idx.SizeConflicts())
	})

	t.Run("ties keep discovery order", func(t *testing.T) {
		idx := build(
			rec("/p/1/b.jpg", 10),
			rec("/p/2/b.jpg", 300),
			rec("/p/3/b.jpg", 10),
			rec("/p/4/b.jpg", 300),
		)

		groups := idx.SizeConflicts()
		require.Len(t, groups, 1)
		assert.Equal(t, "/p/2/b.jpg", groups[0].Keep.Path)
		assert.Equal(t, []string{"/p/4/b.jpg", "/p/1/b.jpg", "/p/3/b.jpg"}, paths(groups[0].Delete))
	})

	t.Run("kept size bounds every deleted size", func(t *testing.T) {
		idx := build(
			rec("/p/1/x.heic", 3),
			rec("/p/2/x.heic", 9),
			rec("/p/3/x.heic", 1),
			rec("/p/4/x.heic", 9),
		)
		for _, g := range idx.SizeConflicts() {
			for _, d := range g.Delete {
				assert.GreaterOrEqual(t, g.Keep.Size, d.Size)
			}
		}
	})
}

func TestRawPairs(t *testing.T) {
	t.Run("raw with jpg deletes the raw", func(t *testing.T) {
		idx := build(
			rec("/p/2016/c.cr2", 25_000),
			rec("/p/2016/c.jpg", 4_000),
		)

		groups := idx.RawPairs()
		require.Len(t, groups, 1)
		assert.Equal(t, CategoryRaw, groups[0].Category)
		assert.Equal(t, "c", groups[0].Key)
		assert.Equal(t, "/p/2016/c.jpg", groups[0].Keep.Path)
		assert.Equal(t, []string{"/p/2016/c.cr2"}, paths(groups[0].Delete))
	})

	t.Run("raw alone is not actionable", func(t *testing.T) {
		idx := build(rec("/p/2016/d.cr2", 25_000))
		assert.Empty(t, idx.RawPairs())
	})

	t.Run("jpg alone is not actionable", func(t *testing.T) {
		idx := build(rec("/p/2016/e.jpeg", 1))
		assert.Empty(t, idx.RawPairs())
	})

	t.Run("pairs across directories and cases", func(t *testing.T) {
		idx := build(
			rec("/p/2016/IMG_9.NEF", 30),
			rec("/p/2017/img_9.JPEG", 3),
		)
		groups := idx.RawPairs()
		require.Len(t, groups, 1)
		assert.Equal(t, "/p/2016/IMG_9.NEF", groups[0].Delete[0].Path)
	})

	t.Run("every actionable pair has both classes", func(t *testing.T) {
		idx := build(
			rec("/p/a.dng", 1),
			rec("/p/a.jpg", 1),
			rec("/p/b.arw", 1),
			rec("/p/c.jpg", 1),
			rec("/p/d.png", 1),
		)
		for _, g := range idx.RawPairs() {
			assert.Equal(t, media.ClassJPG, media.ClassOf(g.Keep.Ext))
			require.Len(t, g.Delete, 1)
			assert.Equal(t, media.ClassRaw, media.ClassOf(g.Delete[0].Ext))
			assert.Equal(t, g.Keep.Base, g.Delete[0].Base)
		}
	})
}

// Only the first RAW seen for a base name is paired. A second RAW variant
// with the same base name is never scheduled, even though its JPG exists.
func TestRawPairs_FirstRawWinsLimitation(t *testing.T) {
	idx := build(
		rec("/p/2016/f.cr2", 20),
		rec("/p/2016/f.dng", 30),
		rec("/p/2016/f.jpg", 5),
		rec("/p/2017/f.jpg", 6),
	)

	groups := idx.RawPairs()
	require.Len(t, groups, 1)
	assert.Equal(t, "/p/2016/f.jpg", groups[0].Keep.Path)
	assert.Equal(t, []string{"/p/2016/f.cr2"}, paths(groups[0].Delete))
}

func TestBuild_RepeatedPathIsOneFile(t *testing.T) {
	idx := build(
		rec("/p/2014/a.jpg", 100),
		rec("/p/2014/a.jpg", 100),
		rec("/p/2014/c.cr2", 900),
		rec("/p/2014/c.jpg", 300),
		rec("/p/2014/c.jpg", 300),
	)

	assert.Equal(t, 3, idx.Len())
	assert.Empty(t, idx.ExactDuplicates())
	assert.Empty(t, idx.SizeConflicts())
	require.Len(t, idx.RawPairs(), 1)
}

func TestBuild_Idempotent(t *testing.T) {
	records := []types.FileRecord{
		rec("/p/1/a.jpg", 100),
		rec("/p/2/a.jpg", 100),
		rec("/p/1/b.jpg", 50),
		rec("/p/2/b.jpg", 200),
		rec("/p/1/c.cr2", 900),
		rec("/p/1/c.jpg", 90),
	}

	first := NewPlan(slices.Values(records), nil, Options{})
	second := NewPlan(slices.Values(records), nil, Options{})
	assert.Equal(t, first, second)
	assert.Equal(t, first.Actions(), second.Actions())
}

func TestBuild_CustomExtensions(t *testing.T) {
	records := []types.FileRecord{
		rec("/p/1/a.png", 1),
		rec("/p/2/a.png", 1),
		rec("/p/1/b.gif", 1),
		rec("/p/2/b.gif", 1),
	}

	idx := Build(slices.Values(records), Options{Extensions: []string{"gif"}})
	groups := idx.ExactDuplicates()
	require.Len(t, groups, 1)
	assert.Equal(t, "b.gif", groups[0].Key)
	assert.Equal(t, 4, idx.Len())
}

func TestGroupMembers(t *testing.T) {
	g := Group{
		Keep:   rec("/k.jpg", 3),
		Delete: []types.FileRecord{rec("/d1.jpg", 1), rec("/d2.jpg", 2)},
	}
	assert.Equal(t, []string{"/k.jpg", "/d1.jpg", "/d2.jpg"}, paths(g.Members()))
	assert.Equal(t, int64(3), g.DeleteBytes())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "exact", want: CategoryExact},
		{in: "DUP", want: CategoryExact},
		{in: "size", want: CategorySize},
		{in: "name", want: CategorySize},
		{in: " raw ", want: CategoryRaw},
		{in: "rawjpg", want: CategoryRaw},
		{in: "hash", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
