package main

import (
	"fmt"
	"os"
)

func removeIfExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove existing database %s: %w", path, err)
	}
	return nil
}
