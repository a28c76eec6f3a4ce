package compile

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hazelnet-bus/hzlconfig/pkg/record"
)

// Magic numbers framing the binary artifact files.
const (
	MagicClient = "HZLc\x00"
	MagicServer = "HZLs\x00"
)

// FilePrefix starts every generated file name, followed by the entity's
// nickname and the extension.
const FilePrefix = "hzl_HardcodedConfig"

// BinaryFileName returns the binary artifact name for a nickname.
func BinaryFileName(nickname string) string {
	return FilePrefix + nickname + ".hzl"
}

// CSourceFileName returns the C source artifact name for a nickname.
func CSourceFileName(nickname string) string {
	return FilePrefix + nickname + ".c"
}

// WriteBinaryFiles writes one framed binary blob per client and one for
// the server into dir, which must already exist.
func (m *Model) WriteBinaryFiles(dir string, order record.ByteOrder, padding byte) error {
	for i := range m.Clients {
		if err := m.Clients[i].writeBinary(dir, order, padding); err != nil {
			return err
		}
	}
	return m.Server.writeBinary(dir, order, padding)
}

func (c *Client) writeBinary(dir string, order record.ByteOrder, padding byte) error {
	path := filepath.Join(dir, BinaryFileName(c.Nickname))
	return writeFile(path, func(w io.Writer) error {
		if _, err := w.Write([]byte(MagicClient)); err != nil {
			return err
		}
		if err := c.Config.EncodeTo(w, order, padding); err != nil {
			return err
		}
		for i := range c.Groups {
			if err := c.Groups[i].EncodeTo(w, order, padding); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Server) writeBinary(dir string, order record.ByteOrder, padding byte) error {
	path := filepath.Join(dir, BinaryFileName(ServerNickname))
	return writeFile(path, func(w io.Writer) error {
		if _, err := w.Write([]byte(MagicServer)); err != nil {
			return err
		}
		if err := s.Config.EncodeTo(w, order, padding); err != nil {
			return err
		}
		for i := range s.Clients {
			if err := s.Clients[i].EncodeTo(w, order, padding); err != nil {
				return err
			}
		}
		for i := range s.Groups {
			if err := s.Groups[i].EncodeTo(w, order, padding); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFile opens path, hands it to emit and closes it on every exit
// path. Filesystem failures come back as a ResourceError; record width
// failures from emit pass through untouched.
func writeFile(path string, emit func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &ResourceError{Op: "create", Path: path, Err: err}
	}
	if err := emit(f); err != nil {
		f.Close()
		var serr *record.SerializationError
		if errors.As(err, &serr) {
			return err
		}
		return &ResourceError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &ResourceError{Op: "close", Path: path, Err: err}
	}
	logrus.WithField("file", path).Debug("wrote artifact")
	return nil
}
