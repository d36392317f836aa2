//go:build !linux

package main

import (
	"os"

	"github.com/pkg/errors"
)

var errNoDevices = errors.New("block devices are only supported on Linux")

func deviceGeometry(f *os.File) (uint32, uint64, error) {
	return 0, 0, errNoDevices
}

func getDiskListDataPlatform() []DiskInfo {
	return nil
}
