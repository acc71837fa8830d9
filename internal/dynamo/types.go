package dynamo

import "sync/atomic"

// Unit conversions shared by the engine and the scheduler. Lengths are in
// gigametres, speeds in km/s, masses in 10^24 kg and times in seconds.
const (
	SecondsPerDay = 86400.0
	KmPerGm       = 1e6
)

// Status is the lifecycle of a simulation run.
type Status int32

const (
	Starting Status = iota
	Running
	Stopped
)

func (s Status) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StatusFlag is a monotonic Status. Transitions only move forward, and each
// reached state closes a channel so waiters need not spin.
type StatusFlag struct {
	v       atomic.Int32
	running chan struct{}
	stopped chan struct{}
}

func NewStatusFlag() *StatusFlag {
	return &StatusFlag{
		running: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (f *StatusFlag) Load() Status { return Status(f.v.Load()) }

// Advance moves the flag to s if s is later than the current state and
// reports whether it did.
func (f *StatusFlag) Advance(s Status) bool {
	for {
		cur := f.v.Load()
		if Status(cur) >= s {
			return false
		}
		if f.v.CompareAndSwap(cur, int32(s)) {
			if Status(cur) < Running {
				close(f.running)
			}
			if s == Stopped {
				close(f.stopped)
			}
			return true
		}
	}
}

// Running is closed once the flag leaves Starting.
func (f *StatusFlag) Running() <-chan struct{} { return f.running }

// Stopped is closed once the flag reaches Stopped.
func (f *StatusFlag) Stopped() <-chan struct{} { return f.stopped }
