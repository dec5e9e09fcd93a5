package fsutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/errors"
)

// WriteFileAtomic replaces path with data. On any failure the previous
// content of path is untouched and the temporary file is removed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+constants.TempPattern)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("sync", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", path, err)
	}

	if err := syncDir(dir); err != nil {
		return errors.WrapIO("sync", dir, err)
	}
	return nil
}

// WriteJSONAtomic encodes v with the library file indentation and writes it
// with WriteFileAtomic.
func WriteJSONAtomic(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", constants.JSONIndent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.WrapResource("encode", "file", path, err)
	}
	return WriteFileAtomic(path, buf.Bytes(), constants.FilePermissions)
}

// syncDir syncs a directory so a completed rename survives a crash.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Sync()
}
