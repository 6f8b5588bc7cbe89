package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SPLITINDEX_ANALYZER_CONFIG", "SPLITINDEX_SPLIT_LENGTH", "SPLITINDEX_TOKENIZER", "SPLITINDEX_FILTERS"} {
		t.Setenv(key, "")
	}
}

func TestRun_Stdin(t *testing.T) {
	clearEnv(t)

	var out bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader("hello"), &out))
	assert.Equal(t, "0\t2\t\"he\"\n2\t4\t\"ll\"\n4\t5\t\"o\"\n", out.String())
}

func TestRun_Flags(t *testing.T) {
	clearEnv(t)

	var out bytes.Buffer
	args := []string{"-length", "3", "-tokenizer", "words", "-filters", "split"}
	require.NoError(t, run(args, strings.NewReader("hello, world"), &out))
	assert.Equal(t, []string{
		"0\t3\t\"hel\"",
		"3\t5\t\"lo\"",
		"7\t10\t\"wor\"",
		"10\t12\t\"ld\"",
	}, strings.Split(strings.TrimSpace(out.String()), "\n"))
}

func TestRun_JSONAndBytes(t *testing.T) {
	clearEnv(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-json", "-bytes"}, strings.NewReader("café"), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var rec record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, record{Source: "-", Text: "fé", Start: 2, End: 5}, rec)
}

func TestRun_Files(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("ab"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("cd"), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{a, b}, strings.NewReader(""), &out))
	assert.Equal(t, "0\t2\t\"ab\"\n0\t2\t\"cd\"\n", out.String())

	err := run([]string{filepath.Join(dir, "missing.txt")}, strings.NewReader(""), &out)
	assert.Error(t, err)
}

func TestRun_Config(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("length: 4\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", path}, strings.NewReader("abcdef"), &out))
	assert.Equal(t, "0\t4\t\"abcd\"\n4\t6\t\"ef\"\n", out.String())
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("length: 4\ntokenizer: words\n"), 0644))

	t.Run("length", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"-config", path, "-length", "2"}, strings.NewReader("abcdef"), &out))
		assert.Equal(t, "0\t6\t\"abcdef\"\n", out.String())
	})

	t.Run("filters", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"-filters", "split", "-config", path, "-length", "2"}, strings.NewReader("abcde"), &out))
		assert.Equal(t, "0\t2\t\"ab\"\n2\t4\t\"cd\"\n4\t5\t\"e\"\n", out.String())
	})

	t.Run("tokenizer", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"-config", path, "-tokenizer", "SPLIT"}, strings.NewReader("abcdef"), &out))
		assert.Equal(t, "0\t4\t\"abcd\"\n4\t6\t\"ef\"\n", out.String())
	})
}

func TestRun_InvalidSettings(t *testing.T) {
	clearEnv(t)

	var out bytes.Buffer
	assert.Error(t, run([]string{"-length", "0"}, strings.NewReader("x"), &out))
	assert.Error(t, run([]string{"-tokenizer", "ngram"}, strings.NewReader("x"), &out))
	assert.Error(t, run([]string{"-nope"}, strings.NewReader("x"), &out))
}
