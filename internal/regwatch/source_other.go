//go:build !windows

package regwatch

import "errors"

func openKey(path string) (Source, error) {
	return nil, errors.New("registry is only available on windows")
}
