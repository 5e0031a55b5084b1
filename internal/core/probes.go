package core

import "context"

// PingProbe adapts any ping function into a HealthProbe. Used by the entry
// point to register the database pool check.
type PingProbe struct {
	ProbeName string
	Ping      func(ctx context.Context) error
}

// Name returns the probe identifier.
func (p PingProbe) Name() string { return p.ProbeName }

// Check runs the ping function.
func (p PingProbe) Check(ctx context.Context) error { return p.Ping(ctx) }
