package cache

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const hashFileName = "hash"

func cleanUpWithHash(dir string, sources ...fs.FS) error {
	newHash, err := hashSources(sources...)
	if err != nil {
		return err
	}

	b := make([]byte, 4)

	hashFile := filepath.Join(dir, hashFileName)
	old, err := os.ReadFile(hashFile)
	switch {
	case err == nil && len(old) == 4 && binary.BigEndian.Uint32(old) == newHash:
		return nil
	case err != nil && !os.IsNotExist(err):
		return errors.WithStack(err)
	}

	err = os.RemoveAll(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return errors.WithStack(err)
	}

	binary.BigEndian.PutUint32(b, newHash)
	err = os.WriteFile(hashFile, b, 0600)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func hashSources(sources ...fs.FS) (uint32, error) {
	h := fnv.New32a()

	for _, src := range sources {
		err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			fmt.Fprint(h, path)
			if d.IsDir() {
				return nil
			}

			f, err := src.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = io.Copy(h, f)
			return err
		})
		if err != nil {
			return 0, errors.WithStack(err)
		}
	}

	return h.Sum32(), nil
}
