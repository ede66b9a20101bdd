// Copyright 2026 Peter Edge
//
// All rights reserved.

package xos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Parallel()
	path, err := ResolvePath("/data/folio", "compositions.hjson")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/data/folio", "compositions.hjson"), path)
	path, err = ResolvePath("/data/folio", "/etc/compositions.hjson")
	require.NoError(t, err)
	require.Equal(t, "/etc/compositions.hjson", path)
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	path, err = ResolvePath("/data/folio", "~/compositions.hjson")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(homeDir, "compositions.hjson"), path)
}
