package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Capability string

const CapabilityNotify Capability = "notify"

var (
	ErrHookDisabled      = errors.New("hook is disabled")
	ErrChecksumMismatch  = errors.New("hook checksum mismatch")
	ErrCapabilityMissing = errors.New("hook capability missing")
	ErrHookTimeout       = errors.New("hook timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest registers an external notification hook binary.
type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("hook name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("hook version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("hook binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("hook sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("hook capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityNotify:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

// Event is one fired alarm as seen by hooks.
type Event struct {
	AlarmID      int
	Name         string
	Message      string
	Duration     int
	EyeBreakHint string
	FiredAt      time.Time
}

func (e Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("event alarm name is required")
	}
	if e.FiredAt.IsZero() {
		return fmt.Errorf("event fired_at is required")
	}
	return nil
}

type Ack struct {
	Accepted bool
	Detail   string
}
