//go:build !windows

package autorun

import "errors"

var errUnsupported = errors.New("autorun is only supported on windows")

type noopStore struct{}

func newStore() store {
	return noopStore{}
}

func (noopStore) get(string) (string, bool, error) { return "", false, nil }

func (noopStore) set(string, string) error { return errUnsupported }

func (noopStore) remove(string) error { return nil }
