package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"gochip8/pkg/emulator"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadROM reads a ROM image and rejects files that cannot fit in program
// memory before any of it is loaded.
func ReadROM(path string) ([]byte, error) {
	fullPath, _, err := GetPathInfo(path)
	if err != nil {
		return nil, fmt.Errorf("resolving rom path: %w", err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}
	if info.Size() > emulator.MaxROMSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", emulator.ErrROMTooLarge, fullPath, info.Size())
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}
	return data, nil
}
