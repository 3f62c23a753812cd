package setup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	DefaultTemplate = "application.example.yaml"
	DefaultTarget   = "application.yaml"
)

var (
	ErrTargetExists    = errors.New("target already exists")
	ErrTemplateMissing = errors.New("template not found")
)

// CopyTemplate copies src to dst, keeping an existing dst unless force is set.
// The write goes through a temp file in dst's directory so a failed copy never
// leaves a truncated config behind.
func CopyTemplate(src, dst string, force bool) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTemplateMissing, src)
		}
		return fmt.Errorf("failed to open template: %w", err)
	}
	defer in.Close()

	if !force {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%w: %s", ErrTargetExists, dst)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat target: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy template: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush target: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move target into place: %w", err)
	}
	return nil
}
