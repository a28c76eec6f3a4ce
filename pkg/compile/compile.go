package compile

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hazelnet-bus/hzlconfig/pkg/config"
	"github.com/hazelnet-bus/hzlconfig/pkg/record"
)

// Options control one compilation run.
type Options struct {
	// OutputDir receives the artifacts and is created if absent. A
	// relative path resolves against the input file's directory.
	OutputDir string
	// ByteOrder applies to every multi-byte integer field.
	ByteOrder record.ByteOrder
	// Padding fills reserved layout bytes.
	Padding byte
}

// DefaultOptions match the values embedded firmware builds expect.
func DefaultOptions() Options {
	return Options{
		OutputDir: "generated",
		ByteOrder: record.LittleEndian,
		Padding:   record.DefaultPadding,
	}
}

// Compile reads the configuration at inputPath and produces the full
// binary and C source artifact set. It returns the resolved output
// directory. The run is deterministic and single-shot: any validation,
// serialization or filesystem failure aborts it, and artifacts already
// written before the failure stay on disk.
func Compile(inputPath string, opts Options) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", &ResourceError{Op: "read", Path: inputPath, Err: err}
	}
	tree, err := config.Parse(data, config.FormatForPath(inputPath))
	if err != nil {
		return "", err
	}
	model := Build(tree)

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = DefaultOptions().OutputDir
	}
	if !filepath.IsAbs(outDir) {
		abs, err := filepath.Abs(inputPath)
		if err != nil {
			return "", &ResourceError{Op: "resolve", Path: inputPath, Err: err}
		}
		outDir = filepath.Join(filepath.Dir(abs), outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", &ResourceError{Op: "create directory", Path: outDir, Err: err}
	}

	if err := model.WriteBinaryFiles(outDir, opts.ByteOrder, opts.Padding); err != nil {
		return "", err
	}
	if err := model.WriteCSourceFiles(outDir, opts.Padding); err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"dir":     outDir,
		"clients": len(model.Clients),
		"groups":  len(model.Server.Groups),
		"order":   opts.ByteOrder.String(),
	}).Info("compiled configuration")
	return outDir, nil
}
