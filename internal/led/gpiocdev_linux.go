//go:build linux

package led

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// consumer is the label the kernel shows for lines we hold.
const consumer = "ledchaser"

// chardev implements Bank on the GPIO character device.
// The four lines are requested together so one ioctl updates the whole bank.
type chardev struct {
	chip    string
	offsets []int
	lines   *gpiocdev.Lines
}

// newChardev requests the lines as outputs, all driven active.
func newChardev(chip string, offsets []int) (*chardev, error) {
	if len(offsets) != LineCount {
		return nil, fmt.Errorf("%w: got %d offsets", ErrLineCount, len(offsets))
	}

	lines, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.AsOutput(AllOn.Values()...),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request lines %v on %s: %w", offsets, chip, err)
	}

	return &chardev{
		chip:    chip,
		offsets: offsets,
		lines:   lines,
	}, nil
}

// Set writes all four line values in one request.
func (c *chardev) Set(p Pattern) error {
	if c.lines == nil {
		return ErrClosed
	}
	if err := c.lines.SetValues(p.Values()); err != nil {
		return fmt.Errorf("failed to set lines %v on %s: %w", c.offsets, c.chip, err)
	}
	return nil
}

// Close drives the lines inactive, reverts them to inputs and releases them.
func (c *chardev) Close() error {
	if c.lines == nil {
		return nil
	}
	var errs []error
	if err := c.lines.SetValues(AllOff.Values()); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear lines: %w", err))
	}
	if err := c.lines.Reconfigure(gpiocdev.AsInput); err != nil {
		errs = append(errs, fmt.Errorf("failed to revert lines to input: %w", err))
	}
	if err := c.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to release lines: %w", err))
	}
	c.lines = nil
	return errors.Join(errs...)
}

// ListChips describes every GPIO chip visible to the process.
func ListChips() ([]ChipInfo, error) {
	names := gpiocdev.Chips()
	chips := make([]ChipInfo, 0, len(names))

	for _, name := range names {
		chip, err := gpiocdev.NewChip(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}

		info := ChipInfo{
			Name:  chip.Name,
			Label: chip.Label,
			Lines: make([]LineInfo, 0, chip.Lines()),
		}
		for offset := 0; offset < chip.Lines(); offset++ {
			li, infoErr := chip.LineInfo(offset)
			if infoErr != nil {
				continue
			}
			info.Lines = append(info.Lines, LineInfo{
				Offset:   li.Offset,
				Name:     li.Name,
				Consumer: li.Consumer,
				Used:     li.Used,
			})
		}
		_ = chip.Close()

		chips = append(chips, info)
	}
	return chips, nil
}
