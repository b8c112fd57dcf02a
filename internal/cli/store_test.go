package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonx/internal/store"
)

func TestStore_PutGet(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	out, _, err := execute(t, `[1,Ref("#")]`, "store", "put", "--db", db, "--key", "loop")
	require.NoError(t, err)
	assert.Equal(t, "loop\n", out)

	out, _, err = execute(t, "", "store", "get", "--db", db, "loop")
	require.NoError(t, err)
	assert.Equal(t, `[1,Ref("#")]`+"\n", out)

	out, _, err = execute(t, "", "store", "get", "--db", db, "loop", "--to", "tree")
	require.NoError(t, err)
	assert.Equal(t, `["$arr",[["$num",1],["$ref","#"]]]`+"\n", out)
}

func TestStore_PutGeneratesKey(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	out, _, err := execute(t, "Set([1])", "store", "put", "--db", db)
	require.NoError(t, err)
	key := strings.TrimSpace(out)
	assert.Len(t, key, 36)

	out, _, err = execute(t, "", "store", "get", "--db", db, key)
	require.NoError(t, err)
	assert.Equal(t, "Set([1])\n", out)
}

func TestStore_PutTreeWithFrame(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	_, _, err := execute(t, `["$str","hi"]`, "store", "put", "--db", db, "--key", "s", "--from", "tree")
	require.NoError(t, err)

	_, _, err = execute(t, `"again"`, "store", "put", "--db", db, "--key", "c", "--frame", "cbor")
	require.NoError(t, err)

	out, _, err := execute(t, "", "store", "ls", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []store.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "s", resp.Data[0].Key)
	assert.Equal(t, "json", resp.Data[0].Frame)
	assert.Equal(t, int64(1), resp.Data[0].Seq)
	assert.Equal(t, "c", resp.Data[1].Key)
	assert.Equal(t, "cbor", resp.Data[1].Frame)

	// values decode from the frame they were written in
	out, _, err = execute(t, "", "store", "get", "--db", db, "c")
	require.NoError(t, err)
	assert.Equal(t, `"again"`+"\n", out)
}

func TestStore_ListText(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	for _, key := range []string{"b", "a"} {
		_, _, err := execute(t, "1", "store", "put", "--db", db, "--key", key)
		require.NoError(t, err)
	}

	out, _, err := execute(t, "", "store", "ls", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SEQ"))
	assert.Equal(t, []string{"1", "b", "json"}, strings.Fields(lines[1])[:3])
	assert.Equal(t, []string{"2", "a", "json"}, strings.Fields(lines[2])[:3])
}

func TestStore_Remove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	_, _, err := execute(t, "null", "store", "put", "--db", db, "--key", "k")
	require.NoError(t, err)

	out, _, err := execute(t, "", "store", "rm", "--db", db, "k")
	require.NoError(t, err)
	assert.Equal(t, "removed k\n", out)

	_, errOut, err := execute(t, "", "store", "get", "--db", db, "k")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "Error [NOT_FOUND]")

	_, errOut, err = execute(t, "", "store", "rm", "--db", db, "k")
	require.Error(t, err)
	assert.Contains(t, errOut, "Error [NOT_FOUND]")
}

func TestStore_PutDecodeError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	_, errOut, err := execute(t, "[1,", "store", "put", "--db", db, "--key", "bad")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "Error [")

	out, _, err := execute(t, "", "store", "ls", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":[]}`, out)
}

func TestStore_ConfigPath(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "from-config.db")
	cfg := writeFile(t, dir, "jsonx.toml", "[store]\npath = "+`"`+filepath.ToSlash(db)+`"`+"\n")

	_, _, err := execute(t, "true", "store", "put", "--config", cfg, "--key", "flag")
	require.NoError(t, err)

	out, _, err := execute(t, "", "store", "get", "--db", db, "flag")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}
