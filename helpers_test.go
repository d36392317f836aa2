package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSectors = 4096

// mbrImage is a raw 2 MiB image with a bootable Linux primary at 2048 and a
// FAT32 primary at 100.
func mbrImage() []byte {
	buf := make([]byte, testSectors*512)
	put := func(i int, status, typ byte, start, length uint32) {
		e := buf[446+i*16:]
		e[0] = status
		e[4] = typ
		binary.LittleEndian.PutUint32(e[8:], start)
		binary.LittleEndian.PutUint32(e[12:], length)
	}
	put(0, 0x80, 0x83, 2048, 1024)
	put(1, 0x00, 0x0C, 100, 500)
	buf[510], buf[511] = 0x55, 0xAA
	copy(buf[2048*512:], "LINUX PARTITION")
	return buf
}

func writeImage(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// runCmd executes the root command with args and returns what it printed.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
