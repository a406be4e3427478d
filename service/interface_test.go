package service

import (
	"errors"
	"reflect"
	"testing"
)

type recorder struct {
	calls []string
}

func (r *recorder) svc(name string, startErr error) Funcs {
	return Funcs{
		ID: name,
		OnStart: func() error {
			r.calls = append(r.calls, "start "+name)
			return startErr
		},
		OnStop: func() error {
			r.calls = append(r.calls, "stop "+name)
			return nil
		},
	}
}

// TestGroupOrder verifies services start in order and stop in reverse
func TestGroupOrder(t *testing.T) {
	r := &recorder{}
	var g Group
	g.Add(r.svc("a", nil))
	g.Add(r.svc("b", nil))

	if err := g.Start(); err != nil {
		t.Fatalf("Unexpected start error: %v", err)
	}
	g.Stop()
	g.Stop()

	want := []string{"start a", "start b", "stop b", "stop a"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("Expected %v, got %v", want, r.calls)
	}
}

// TestGroupOptionalFailure verifies an optional failure is skipped and never stopped
func TestGroupOptionalFailure(t *testing.T) {
	r := &recorder{}
	var g Group
	g.AddOptional(r.svc("audio", errors.New("no device")))
	g.Add(r.svc("loop", nil))

	if err := g.Start(); err != nil {
		t.Fatalf("Expected optional failure to be tolerated, got %v", err)
	}
	if g.Running("audio") {
		t.Errorf("Expected audio not running")
	}
	if !g.Running("loop") {
		t.Errorf("Expected loop running")
	}

	g.Stop()
	want := []string{"start audio", "start loop", "stop loop"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("Expected %v, got %v", want, r.calls)
	}
}

// TestGroupRequiredFailure verifies a required failure rolls back started services
func TestGroupRequiredFailure(t *testing.T) {
	r := &recorder{}
	boom := errors.New("boom")
	var g Group
	g.Add(r.svc("a", nil))
	g.Add(r.svc("b", boom))
	g.Add(r.svc("c", nil))

	err := g.Start()
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	want := []string{"start a", "start b", "stop a"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("Expected %v, got %v", want, r.calls)
	}
}
