package storage

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/ecomstore/config"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. Call once at application startup.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDefault()

	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		defaultDisk = "local"
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk plugs in a custom Disk implementation. Used in tests.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// Default returns the configured default disk name.
func Default() string {
	managerMu.RLock()
	defer managerMu.RUnlock()
	return defaultDisk
}

// Put writes content to path on the default disk.
func Put(path string, content []byte) error { return Use(Default()).Put(path, content) }

// Get returns file content from the default disk.
func Get(path string) ([]byte, error) { return Use(Default()).Get(path) }

// Delete removes path from the default disk.
func Delete(path string) error { return Use(Default()).Delete(path) }
