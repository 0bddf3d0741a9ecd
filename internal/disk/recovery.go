package disk

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// RecoverFile streams the cluster chain of a file to destPath, truncating
// the final cluster so that exactly size bytes are written — never the
// trailing slack of the last on-disk cluster (§4.7). Parent directories of
// destPath are created as needed.
func RecoverFile(vol *Volume, chain ChainResult, size uint32, destPath string) (uint64, error) {
	if len(chain.Clusters) == 0 {
		return 0, newErr(ErrRecoverFailed, "RecoverFile", fmt.Errorf("empty cluster chain for %q", destPath))
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, newErr(ErrIoError, "RecoverFile", err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return 0, newErr(ErrIoError, "RecoverFile", err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)

	var written uint64
	remaining := uint64(size)

	for _, cluster := range chain.Clusters {
		if remaining == 0 {
			break
		}

		data, err := vol.ReadCluster(cluster)
		if err != nil {
			if ferr := w.Flush(); ferr != nil {
				return written, newErr(ErrIoError, "RecoverFile", ferr)
			}
			return written, newErr(ErrPartialRecovery, "RecoverFile",
				fmt.Errorf("reading cluster %d for %q: %w", cluster, destPath, err))
		}

		n := uint64(len(data))
		if n > remaining {
			n = remaining
		}

		if _, err := w.Write(data[:n]); err != nil {
			return written, newErr(ErrIoError, "RecoverFile", err)
		}
		written += n
		remaining -= n
	}

	if err := w.Flush(); err != nil {
		return written, newErr(ErrIoError, "RecoverFile", err)
	}

	if remaining > 0 {
		return written, newErr(ErrPartialRecovery, "RecoverFile",
			fmt.Errorf("chain exhausted with %d bytes remaining for %q", remaining, destPath))
	}
	return written, nil
}
