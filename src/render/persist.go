package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suhuimengx/cwndplot/src/cwnd"
)

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so path is either untouched or holds the complete image.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", cwnd.ErrWrite, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", cwnd.ErrWrite, tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", cwnd.ErrWrite, tmp, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", cwnd.ErrWrite, tmp, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", cwnd.ErrWrite, err)
	}
	return nil
}
