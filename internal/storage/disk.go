package storage

import (
	"os"
	"path/filepath"
)

// UsageBytes reports how much disk the backend selected by opts occupies.
// Memory and Redis backends report 0.
func UsageBytes(opts Options) (int64, error) {
	switch opts.Driver {
	case DriverSQLite:
		// WAL mode keeps the journal and shared-memory files beside the database.
		return DiskUsageBytes(opts.DatabasePath, opts.DatabasePath+"-wal", opts.DatabasePath+"-shm")
	case DriverFile:
		return DiskUsageBytes(opts.FilePath)
	default:
		return 0, nil
	}
}

// DiskUsageBytes returns the total size in bytes of the given paths.
// Each path may be a file or a directory (recursively summed).
// Missing paths are skipped; errors during walk are returned.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if info.IsDir() {
			n, err := dirSize(p)
			if err != nil {
				return 0, err
			}
			total += n
		} else {
			total += info.Size()
		}
	}
	return total, nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
