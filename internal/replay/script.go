// Package replay drives simulations from scripted key input so runs can be
// reproduced exactly, compared, and executed side by side.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScript = errors.New("invalid replay script")

// DefaultFrameRate applies when a script sets neither frame_rate nor
// frame_interval.
const DefaultFrameRate = 60

// Script is a scripted input session. Events apply at the start of their
// frame, before that frame's ticks run.
type Script struct {
	Name          string        `yaml:"name"`
	FrameRate     int           `yaml:"frame_rate"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	Frames        int           `yaml:"frames"`
	Events        []Event       `yaml:"events"`
}

// Event presses and releases keys at a frame index.
type Event struct {
	Frame   int      `yaml:"frame"`
	Press   []string `yaml:"press"`
	Release []string `yaml:"release"`
}

// LoadScript decodes and validates a YAML script. Scripts without a frame
// rate or interval run at 60 Hz.
func LoadScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse replay script: %w", err)
	}
	if s.FrameRate == 0 && s.FrameInterval == 0 {
		s.FrameRate = DefaultFrameRate
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.sortEvents()
	return &s, nil
}

// LoadFile reads a script from disk. Scripts without a name are named after
// the file.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay script: %w", err)
	}
	defer f.Close()

	s, err := LoadScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate reports every problem in the script at once.
func (s *Script) Validate() error {
	var result *multierror.Error

	if s.Frames <= 0 {
		result = multierror.Append(result, fmt.Errorf("frames must be positive, got %d", s.Frames))
	}
	switch {
	case s.FrameRate < 0:
		result = multierror.Append(result, fmt.Errorf("frame_rate must be positive, got %d", s.FrameRate))
	case s.FrameInterval < 0:
		result = multierror.Append(result, fmt.Errorf("frame_interval must be positive, got %s", s.FrameInterval))
	case s.FrameRate > 0 && s.FrameInterval > 0:
		result = multierror.Append(result, errors.New("frame_rate and frame_interval are mutually exclusive"))
	case s.FrameRate == 0 && s.FrameInterval == 0:
		result = multierror.Append(result, errors.New("one of frame_rate or frame_interval is required"))
	}
	for i, e := range s.Events {
		if e.Frame < 0 || (s.Frames > 0 && e.Frame >= s.Frames) {
			result = multierror.Append(result, fmt.Errorf("events[%d]: frame %d outside [0, %d)", i, e.Frame, s.Frames))
		}
		if len(e.Press) == 0 && len(e.Release) == 0 {
			result = multierror.Append(result, fmt.Errorf("events[%d]: presses or releases nothing", i))
		}
		for _, k := range append(append([]string(nil), e.Press...), e.Release...) {
			if strings.TrimSpace(k) == "" {
				result = multierror.Append(result, fmt.Errorf("events[%d]: empty key name", i))
				break
			}
		}
	}

	if result.ErrorOrNil() == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidScript, result)
}

func (s *Script) sortEvents() {
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].Frame < s.Events[j].Frame
	})
}

// Timestamp is the scripted time of a frame. With a frame rate each
// timestamp is truncated on its own, so frame spacing never drifts from the
// rate.
func (s *Script) Timestamp(frame int) time.Duration {
	if s.FrameInterval > 0 {
		return time.Duration(frame) * s.FrameInterval
	}
	return time.Duration(frame) * time.Second / time.Duration(s.FrameRate)
}

// Duration is the scripted wall time from the first to the last frame.
func (s *Script) Duration() time.Duration {
	if s.Frames <= 1 {
		return 0
	}
	return s.Timestamp(s.Frames - 1)
}
