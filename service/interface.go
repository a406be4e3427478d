package service

import (
	"fmt"
	"log"
)

// Service defines the lifecycle interface for infrastructure subsystems
// Services manage long-lived resources: audio backends, score stores, the tick loop
//
// Lifecycle:
//  1. Construction
//  2. Start() - acquire resources, launch background goroutines
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Start begins service operation
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}

// Funcs adapts plain functions to Service
type Funcs struct {
	ID      string
	OnStart func() error
	OnStop  func() error
}

func (f Funcs) Name() string { return f.ID }

func (f Funcs) Start() error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart()
}

func (f Funcs) Stop() error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop()
}

type member struct {
	svc      Service
	optional bool
	started  bool
}

// Group starts services in registration order and stops them in reverse
// An optional service that fails to start is logged and skipped
type Group struct {
	members []*member
}

// Add registers a required service
func (g *Group) Add(s Service) {
	g.members = append(g.members, &member{svc: s})
}

// AddOptional registers a service the program can run without
func (g *Group) AddOptional(s Service) {
	g.members = append(g.members, &member{svc: s, optional: true})
}

// Start starts every member; a required failure stops those already started
func (g *Group) Start() error {
	for _, m := range g.members {
		if err := m.svc.Start(); err != nil {
			if m.optional {
				log.Printf("[service] %s unavailable, continuing without it: %v", m.svc.Name(), err)
				continue
			}
			g.Stop()
			return fmt.Errorf("start %s: %w", m.svc.Name(), err)
		}
		m.started = true
		log.Printf("[service] %s started", m.svc.Name())
	}
	return nil
}

// Stop stops started members in reverse order and returns the first error
func (g *Group) Stop() error {
	var first error
	for i := len(g.members) - 1; i >= 0; i-- {
		m := g.members[i]
		if !m.started {
			continue
		}
		m.started = false
		if err := m.svc.Stop(); err != nil {
			log.Printf("[service] %s stop failed: %v", m.svc.Name(), err)
			if first == nil {
				first = fmt.Errorf("stop %s: %w", m.svc.Name(), err)
			}
		}
	}
	return first
}

// Running reports whether the named service started
func (g *Group) Running(name string) bool {
	for _, m := range g.members {
		if m.svc.Name() == name {
			return m.started
		}
	}
	return false
}
