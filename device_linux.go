//go:build linux

package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// deviceGeometry asks the kernel for the logical sector size and byte size of
// an open block device.
func deviceGeometry(f *os.File) (uint32, uint64, error) {
	size, err := blockDeviceSize(f)
	if err != nil {
		return 0, 0, err
	}
	return uint32(getSectorSize(f)), size, nil
}

func getSectorSize(file *os.File) int {
	sectorSize, err := unix.IoctlGetInt(int(file.Fd()), unix.BLKSSZGET)
	if err == nil && sectorSize > 0 {
		return sectorSize
	}

	// fall back to sysfs
	devName := filepath.Base(file.Name())
	data, err := os.ReadFile("/sys/class/block/" + devName + "/queue/logical_block_size")
	if err == nil {
		if sz, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr == nil && sz > 0 {
			return sz
		}
	}
	return 512
}

// blockDeviceSize retrieves the total size of the block device using an ioctl call
func blockDeviceSize(f *os.File) (uint64, error) {
	var size uint64
	_, _, e := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
	if e != 0 {
		return 0, errors.Wrap(e, "ioctl BLKGETSIZE64")
	}
	return size, nil
}

func getDiskListDataPlatform() []DiskInfo {
	var disks []DiskInfo
	blockDevices, err := os.ReadDir("/sys/class/block")
	if err != nil {
		return disks
	}

	excludePrefixes := []string{"loop", "zram", "ram"}
	for _, bd := range blockDevices {
		devName := bd.Name()
		skip := false
		for _, prefix := range excludePrefixes {
			if strings.HasPrefix(devName, prefix) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		devPath := "/dev/" + devName
		info := DiskInfo{Path: devPath, DiskType: getDiskType(devName)}
		if f, err := os.Open(devPath); err != nil {
			info.SizeStr = "Error: " + err.Error()
		} else {
			if size, err := blockDeviceSize(f); err != nil {
				info.SizeStr = "Error: " + err.Error()
			} else {
				info.Size = int64(size)
				info.SizeStr = formatBytes(size)
			}
			info.SectorSize = uint32(getSectorSize(f))
			_ = f.Close()
		}

		if mountPoint, err := findMountPointForDevice(devPath); err != nil {
			info.MountInfo = "(No filesystem mount found)"
		} else {
			info.Mounted = true
			total, used, free, err := getFsSpace(mountPoint)
			if err != nil {
				info.MountInfo = "(mounted on " + mountPoint + ") - Error reading filesystem"
			} else {
				info.MountInfo = "(mounted on " + mountPoint + ") - Total: " + formatBytes(total) +
					", Used: " + formatBytes(used) + ", Free: " + formatBytes(free)
			}
		}
		disks = append(disks, info)
	}
	return disks
}

// getDiskType classifies a block device from its sysfs attributes.
func getDiskType(devName string) string {
	base := "/sys/class/block/" + devName
	if _, err := os.Stat(base + "/partition"); err == nil {
		return "partition"
	}
	if data, err := os.ReadFile(base + "/removable"); err == nil && strings.TrimSpace(string(data)) == "1" {
		return "removable"
	}
	if _, err := os.Stat(base + "/device"); err != nil {
		return "virtual"
	}
	return "physical"
}

// findMountPointForDevice tries to find where the device is mounted by reading /proc/self/mountinfo
func findMountPointForDevice(devPath string) (string, error) {
	f, err := os.Open("/proc/self/mountinfo")
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), " - ")
		if len(parts) < 2 {
			continue
		}
		beforeFields := strings.Split(parts[0], " ")
		afterFields := strings.Split(parts[1], " ")
		if len(beforeFields) < 5 || len(afterFields) < 3 {
			continue
		}
		if afterFields[1] == devPath {
			return beforeFields[4], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errors.Errorf("no mount found for device %s", devPath)
}

// getFsSpace returns total, used, and free space for a mounted filesystem
func getFsSpace(mountPoint string) (total, used, free int64, err error) {
	var fs unix.Statfs_t
	if err = unix.Statfs(mountPoint, &fs); err != nil {
		return 0, 0, 0, err
	}
	total = int64(fs.Blocks) * int64(fs.Bsize)
	free = int64(fs.Bfree) * int64(fs.Bsize)
	available := int64(fs.Bavail) * int64(fs.Bsize)
	used = total - available
	return total, used, free, nil
}
