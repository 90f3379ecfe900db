//go:build !linux

package led

import (
	"errors"
	"runtime"
)

var errNoChardev = errors.New("GPIO character device is only available on linux, not " + runtime.GOOS)

type chardev struct{}

func newChardev(_ string, _ []int) (*chardev, error) {
	return nil, errNoChardev
}

func (c *chardev) Set(_ Pattern) error { return errNoChardev }

func (c *chardev) Close() error { return nil }

// ListChips is unsupported off linux.
func ListChips() ([]ChipInfo, error) {
	return nil, errNoChardev
}
