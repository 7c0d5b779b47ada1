package dto

import "time"

type HookInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type EventInput struct {
	AlarmID      int
	Name         string
	Message      string
	Duration     int
	EyeBreakHint string
	FiredAt      time.Time
}

type DispatchResult struct {
	Name      string
	Delivered bool
	Detail    string
	Error     string
}
