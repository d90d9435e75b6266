package main

import (
	"os"

	"github.com/cockroachdb/errors"
)

// saveFile writes contents to path. Without overwrite an existing file is
// left untouched and reported as an error.
func saveFile(path string, overwrite bool, contents string) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to write to file '%s'", path), errFileWrite)
	}
	if _, err := f.WriteString(contents); err != nil {
		_ = f.Close()
		return errors.Mark(errors.Wrapf(err, "failed to write to file '%s'", path), errFileWrite)
	}
	if err := f.Close(); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to write to file '%s'", path), errFileWrite)
	}
	return nil
}
