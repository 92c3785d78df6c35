// Package configutil reads json5 configuration files with optional local overrides.
package configutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localName turns "dir/vistos.json5" into "dir/vistos.local.json5".
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func decodeFile[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(contents) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig reads name and then <name>.local.<ext>, fields set in the local file win.
// It returns os.ErrNotExist when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	out, foundDefault, err := decodeFile[T](name)
	if err != nil {
		return out, err
	}

	override, foundLocal, err := decodeFile[T](localName(name))
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig, looking in the working directory and then every parent
// directory until a match is found.
func ReadRecursively[T any](name string) (T, string, error) {
	var empty T

	current, err := os.Getwd()
	if err != nil {
		return empty, "", err
	}

	for {
		path := filepath.Join(current, name)
		config, err := ReadConfig[T](path)
		if err == nil {
			return config, path, nil
		}
		if !os.IsNotExist(err) {
			return empty, "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return empty, "", os.ErrNotExist
		}
		current = parent
	}
}
