package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func TestEmbedded(t *testing.T) {
	steps, err := Embedded()
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, int64(1), steps[0].Version)
	assert.Equal(t, "create_users", steps[0].Name)
	assert.Contains(t, steps[0].Up, "CREATE TABLE users")
	assert.Equal(t, "create_posts", steps[1].Name)
	assert.Contains(t, steps[1].Up, "ON DELETE CASCADE")
	assert.Contains(t, steps[1].Down, "DROP TABLE")
}

func TestLoad_SortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.up.sql":   file("B"),
		"0002_b.down.sql": file("-B"),
		"0001_a.up.sql":   file("A"),
		"0001_a.down.sql": file("-A"),
	}

	steps, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, Step{Version: 1, Name: "a", Up: "A", Down: "-A"}, steps[0])
	assert.Equal(t, Step{Version: 2, Name: "b", Up: "B", Down: "-B"}, steps[1])
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{
			name: "gap in versions",
			fsys: fstest.MapFS{
				"0001_a.up.sql": file("A"), "0001_a.down.sql": file("-A"),
				"0003_c.up.sql": file("C"), "0003_c.down.sql": file("-C"),
			},
			wantErr: "contiguous",
		},
		{
			name: "not starting at one",
			fsys: fstest.MapFS{
				"0002_b.up.sql": file("B"), "0002_b.down.sql": file("-B"),
			},
			wantErr: "contiguous",
		},
		{
			name: "missing down",
			fsys: fstest.MapFS{
				"0001_a.up.sql": file("A"),
			},
			wantErr: "missing down",
		},
		{
			name: "missing up",
			fsys: fstest.MapFS{
				"0001_a.down.sql": file("-A"),
			},
			wantErr: "missing up",
		},
		{
			name: "duplicate version with different names",
			fsys: fstest.MapFS{
				"0001_a.up.sql": file("A"), "0001_a.down.sql": file("-A"),
				"1_b.up.sql": file("B"),
			},
			wantErr: "conflicting names",
		},
		{
			name: "bad file name",
			fsys: fstest.MapFS{
				"create_users.sql": file("A"),
			},
			wantErr: "name must match",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.fsys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStatus_Pending(t *testing.T) {
	assert.True(t, Status{Current: 1, Latest: 2}.Pending())
	assert.False(t, Status{Current: 2, Latest: 2}.Pending())
}
