// Copyright (c) 2026 OneTimeSecret
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package boot_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
)

// recorder collects lifecycle events emitted by the test initializers
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]string, len(r.events))
	copy(events, r.events)
	return events
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.all() {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) indexOf(t *testing.T, event string) int {
	for i, e := range r.all() {
		if e == event {
			return i
		}
	}
	t.Fatalf("event was never recorded : %v", event)
	return -1
}

type preloadUnit struct {
	name string
	rec  *recorder
	err  error
}

func (u *preloadUnit) Execute(ctx *boot.Context) error {
	u.rec.record("exec:" + u.name)
	return u.err
}

type forkUnit struct {
	name         string
	rec          *recorder
	execErr      error
	execPanic    bool
	cleanupPanic bool
	reconnectErr error
}

func (u *forkUnit) Execute(ctx *boot.Context) error {
	u.rec.record("exec:" + u.name)
	if u.execPanic {
		panic("exec panic : " + u.name)
	}
	return u.execErr
}

func (u *forkUnit) Cleanup() {
	u.rec.record("cleanup:" + u.name)
	if u.cleanupPanic {
		panic("cleanup panic : " + u.name)
	}
}

func (u *forkUnit) Reconnect() error {
	u.rec.record("reconnect:" + u.name)
	return u.reconnectErr
}

func preloadReg(rec *recorder, name string, provides []boot.Token, dependsOn boot.Dependencies) *boot.Registration {
	return boot.NewRegistration(
		boot.NewDescriptor(name, boot.PhasePreload, "1.0.0", provides, dependsOn),
		func() boot.Initializer { return &preloadUnit{name: name, rec: rec} },
	)
}

func forkReg(rec *recorder, name string, provides []boot.Token, dependsOn boot.Dependencies) *boot.Registration {
	return boot.NewRegistration(
		boot.NewDescriptor(name, boot.PhaseForkSensitive, "1.0.0", provides, dependsOn),
		func() boot.Initializer { return &forkUnit{name: name, rec: rec} },
	)
}

// tenUnits builds 5 preload units and a 5-unit fork-sensitive chain:
//
//	p0 provides config, p1..p4 depend on config
//	f0 depends on config, f1..f4 chain on the previous fork unit
func tenUnits(rec *recorder) []*boot.Registration {
	registrations := []*boot.Registration{
		preloadReg(rec, "p0", []boot.Token{"config"}, nil),
	}
	for i := 1; i < 5; i++ {
		registrations = append(registrations,
			preloadReg(rec, fmt.Sprintf("p%d", i), nil, boot.Dependencies{"config": nil}))
	}
	registrations = append(registrations,
		forkReg(rec, "f0", []boot.Token{"tf0"}, boot.Dependencies{"config": nil}))
	for i := 1; i < 5; i++ {
		registrations = append(registrations,
			forkReg(rec, fmt.Sprintf("f%d", i),
				[]boot.Token{boot.Token(fmt.Sprintf("tf%d", i))},
				boot.Dependencies{boot.Token(fmt.Sprintf("tf%d", i-1)): nil}))
	}
	return registrations
}

func TestRegistryLifecycle(t *testing.T) {
	rec := &recorder{}
	registry := boot.NewRegistry(boot.Settings{Name: "lifecycle_test"})
	if !registry.State().Unloaded() {
		t.Fatalf("a new registry must be Unloaded : %v", registry.State())
	}
	if registry.ID() == "" {
		t.Error("registry id is blank")
	}

	if err := registry.RunAll(nil); err == nil {
		t.Error("RunAll before a load must fail")
	} else if _, ok := err.(*boot.IllegalStateError); !ok {
		t.Errorf("error type does not match : %T : %v", err, err)
	}

	if err := registry.LoadOnly(tenUnits(rec)); err != nil {
		t.Fatal(err)
	}
	if !registry.State().Loaded() {
		t.Fatalf("state does not match : %v", registry.State())
	}
	if registry.InitializerCount() != 10 {
		t.Fatalf("initializer count does not match : %v", registry.InitializerCount())
	}
	if forkSensitive := registry.ForkSensitiveInitializers(); len(forkSensitive) != 5 {
		t.Fatalf("fork-sensitive count does not match : %v", forkSensitive)
	}
	if len(rec.all()) != 0 {
		t.Errorf("nothing should execute during a load : %v", rec.all())
	}
	if !registry.ProvidedCapabilities().Contains("config") {
		t.Error("provided capabilities should contain config")
	}
	if registry.Initializer("f0") == nil {
		t.Error("f0 should be loaded")
	}
	if registry.Initializer("unknown") != nil {
		t.Error("unknown should not be loaded")
	}

	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}
	if !registry.State().Run() {
		t.Fatalf("state does not match : %v", registry.State())
	}
	for i := 0; i < 5; i++ {
		if rec.count(fmt.Sprintf("exec:p%d", i)) != 1 {
			t.Errorf("p%d should have executed exactly once : %v", i, rec.all())
		}
		if rec.count(fmt.Sprintf("exec:f%d", i)) != 1 {
			t.Errorf("f%d should have executed exactly once : %v", i, rec.all())
		}
	}
	if rec.indexOf(t, "exec:p0") > rec.indexOf(t, "exec:f0") {
		t.Errorf("the config provider must execute before its dependents : %v", rec.all())
	}
	for i := 1; i < 5; i++ {
		if rec.indexOf(t, fmt.Sprintf("exec:f%d", i-1)) > rec.indexOf(t, fmt.Sprintf("exec:f%d", i)) {
			t.Errorf("fork chain executed out of order : %v", rec.all())
		}
	}

	if err := registry.RunAll(nil); err == nil {
		t.Error("RunAll in the Run state must fail")
	} else if illegal, ok := err.(*boot.IllegalStateError); !ok || !illegal.State.Run() {
		t.Errorf("error does not match : %T : %v", err, err)
	}
}

func TestRunAllContextValue(t *testing.T) {
	type bootValue struct{ configured bool }
	value := &bootValue{}

	registry := boot.NewRegistry(boot.Settings{Name: "ctx_test"})
	captured := make(chan *boot.Context, 1)
	registration := boot.NewRegistration(
		boot.NewDescriptor("capture", boot.PhasePreload, "1.0.0", nil, nil),
		func() boot.Initializer {
			return initializerFunc(func(ctx *boot.Context) error {
				captured <- ctx
				ctx.Value().(*bootValue).configured = true
				return nil
			})
		},
	)
	if err := registry.LoadOnly([]*boot.Registration{registration}); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(value); err != nil {
		t.Fatal(err)
	}
	ctx := <-captured
	if ctx.Value() != interface{}(value) {
		t.Error("the boot value must be handed through untouched")
	}
	if ctx.Registry() != registry {
		t.Error("the context must reference the running registry")
	}
	if !value.configured {
		t.Error("the initializer's changes to the boot value must be visible to the caller")
	}
}

type initializerFunc func(ctx *boot.Context) error

func (f initializerFunc) Execute(ctx *boot.Context) error { return f(ctx) }

// the loaded-list read operations are safe to invoke from inside Execute -
// lifecycle operations are not, per the Context.Registry contract
func TestExecuteMayReadRegistry(t *testing.T) {
	rec := &recorder{}
	registrations := tenUnits(rec)
	registrations = append(registrations, boot.NewRegistration(
		boot.NewDescriptor("reader", boot.PhasePreload, "1.0.0", nil, boot.Dependencies{"config": nil}),
		func() boot.Initializer {
			return initializerFunc(func(ctx *boot.Context) error {
				registry := ctx.Registry()
				if registry.InitializerCount() != 11 {
					t.Errorf("initializer count does not match : %v", registry.InitializerCount())
				}
				if len(registry.ForkSensitiveInitializers()) != 5 {
					t.Error("fork-sensitive count does not match")
				}
				if registry.Initializer("reader") == nil {
					t.Error("the running initializer should be visible in the loaded list")
				}
				return nil
			})
		},
	))

	registry := boot.NewRegistry(boot.Settings{Name: "reader_test"})
	if err := registry.LoadOnly(registrations); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}
}

func TestRunAllExecuteFailure(t *testing.T) {
	rec := &recorder{}
	failure := errors.New("redis is down")
	registrations := []*boot.Registration{
		preloadReg(rec, "a", []boot.Token{"ta"}, nil),
		boot.NewRegistration(
			boot.NewDescriptor("b", boot.PhasePreload, "1.0.0", []boot.Token{"tb"}, boot.Dependencies{"ta": nil}),
			func() boot.Initializer { return &preloadUnit{name: "b", rec: rec, err: failure} },
		),
		preloadReg(rec, "c", nil, boot.Dependencies{"tb": nil}),
	}

	registry := boot.NewRegistry(boot.Settings{Name: "exec_failure_test"})
	if err := registry.LoadOnly(registrations); err != nil {
		t.Fatal(err)
	}
	err := registry.RunAll(nil)
	if err == nil {
		t.Fatal("expected an ExecuteError")
	}
	executeErr, ok := err.(*boot.ExecuteError)
	if !ok {
		t.Fatalf("error type does not match : %T : %v", err, err)
	}
	if executeErr.Name != "b" || !errors.Is(err, failure) {
		t.Errorf("error does not match : %v", executeErr)
	}
	if rec.count("exec:c") != 0 {
		t.Errorf("a failed boot must not execute later initializers : %v", rec.all())
	}
	if !registry.State().Loaded() {
		t.Errorf("a failed boot must leave the registry Loaded : %v", registry.State())
	}
	t.Log(err)
}

func TestRunAllExecutePanic(t *testing.T) {
	rec := &recorder{}
	registration := boot.NewRegistration(
		boot.NewDescriptor("panicking", boot.PhaseForkSensitive, "1.0.0", nil, nil),
		func() boot.Initializer { return &forkUnit{name: "panicking", rec: rec, execPanic: true} },
	)
	registry := boot.NewRegistry(boot.Settings{Name: "exec_panic_test"})
	if err := registry.LoadOnly([]*boot.Registration{registration}); err != nil {
		t.Fatal(err)
	}
	err := registry.RunAll(nil)
	if err == nil {
		t.Fatal("expected an ExecuteError")
	}
	executeErr, ok := err.(*boot.ExecuteError)
	if !ok {
		t.Fatalf("error type does not match : %T : %v", err, err)
	}
	if _, ok := executeErr.Err.(*boot.PanicError); !ok {
		t.Errorf("the panic should be wrapped in a PanicError : %T : %v", executeErr.Err, executeErr.Err)
	}
	t.Log(err)
}

func TestLoadIsAllOrNothing(t *testing.T) {
	rec := &recorder{}
	registry := boot.NewRegistry(boot.Settings{Name: "all_or_nothing_test"})
	if err := registry.LoadOnly(tenUnits(rec)); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}

	badSets := [][]*boot.Registration{
		// unresolved dependency
		{preloadReg(rec, "orphan", nil, boot.Dependencies{"nosuchtoken": nil})},
		// duplicate provider
		{
			preloadReg(rec, "a", []boot.Token{"dup"}, nil),
			preloadReg(rec, "b", []boot.Token{"dup"}, nil),
		},
		// duplicate name
		{
			preloadReg(rec, "a", nil, nil),
			preloadReg(rec, "a", nil, nil),
		},
		// constructor returns nil
		{boot.NewRegistration(
			boot.NewDescriptor("nilunit", boot.PhasePreload, "1.0.0", nil, nil),
			func() boot.Initializer { return nil },
		)},
		// declared fork-sensitive, does not implement ForkSensitive
		{boot.NewRegistration(
			boot.NewDescriptor("notfork", boot.PhaseForkSensitive, "1.0.0", nil, nil),
			func() boot.Initializer { return &preloadUnit{name: "notfork", rec: rec} },
		)},
	}

	for i, registrations := range badSets {
		err := registry.LoadOnly(registrations)
		if err == nil {
			t.Fatalf("bad set %d : the load should have failed", i)
		}
		t.Logf("bad set %d : %v", i, err)
		if registry.InitializerCount() != 10 {
			t.Errorf("bad set %d : a failed load must leave the loaded initializers untouched : %v", i, registry.InitializerCount())
		}
		if !registry.State().Run() {
			t.Errorf("bad set %d : a failed load must leave the state untouched : %v", i, registry.State())
		}
	}

	// specific error types
	if _, ok := badLoadError(t, registry, badSets[3]).(*boot.NilInitializerError); !ok {
		t.Error("a nil constructor result must be reported as NilInitializerError")
	}
	if _, ok := badLoadError(t, registry, badSets[4]).(*boot.NotForkSensitiveError); !ok {
		t.Error("a non-conforming fork-sensitive unit must be reported as NotForkSensitiveError")
	}
}

func badLoadError(t *testing.T, registry *boot.Registry, registrations []*boot.Registration) error {
	err := registry.LoadOnly(registrations)
	if err == nil {
		t.Fatal("the load should have failed")
	}
	return err
}

func TestLoadReplacesWholesale(t *testing.T) {
	rec := &recorder{}
	registry := boot.NewRegistry(boot.Settings{Name: "replace_test"})
	if err := registry.LoadOnly(tenUnits(rec)); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}

	replacement := []*boot.Registration{preloadReg(rec, "solo", nil, nil)}
	if err := registry.LoadOnly(replacement); err != nil {
		t.Fatal(err)
	}
	if registry.InitializerCount() != 1 {
		t.Errorf("the previous set must be replaced wholesale : %v", registry.InitializerCount())
	}
	if !registry.State().Loaded() {
		t.Errorf("a re-load must discard the Run state : %v", registry.State())
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}
	if rec.count("exec:solo") != 1 {
		t.Errorf("the replacement set should have executed : %v", rec.all())
	}
}

func TestLoadChecksCatalogue(t *testing.T) {
	rec := &recorder{}
	catalogue := boot.NewCatalogue()
	registry := boot.NewRegistry(boot.Settings{Name: "catalogue_test", Catalogue: catalogue})

	registration := preloadReg(rec, "p0", []boot.Token{"config"}, nil)
	err := registry.Load([]*boot.Registration{registration})
	if err == nil {
		t.Fatal("expected a NotInCatalogueError")
	}
	if notInCatalogue, ok := err.(*boot.NotInCatalogueError); !ok || notInCatalogue.Name != "p0" {
		t.Fatalf("error does not match : %T : %v", err, err)
	}

	// LoadOnly bypasses the catalogue
	if err := registry.LoadOnly([]*boot.Registration{registration}); err != nil {
		t.Fatal(err)
	}

	catalogue.MustRegister(registration)
	if err := registry.Load([]*boot.Registration{registration}); err != nil {
		t.Fatal(err)
	}
}

func TestForkCycles(t *testing.T) {
	rec := &recorder{}
	registry := boot.NewRegistry(boot.Settings{Name: "fork_test"})
	if err := registry.LoadOnly(tenUnits(rec)); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}

	const cycles = 3
	for i := 0; i < cycles; i++ {
		registry.CleanupBeforeFork()
		if err := registry.ReconnectAfterFork(); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 5; i++ {
		if n := rec.count(fmt.Sprintf("cleanup:f%d", i)); n != cycles {
			t.Errorf("f%d should have been cleaned up %d times : %d", i, cycles, n)
		}
		if n := rec.count(fmt.Sprintf("reconnect:f%d", i)); n != cycles {
			t.Errorf("f%d should have reconnected %d times : %d", i, cycles, n)
		}
	}

	// within each pass: cleanups run in reverse execution order, reconnects in execution order,
	// and every cleanup of a cycle precedes every reconnect of that cycle
	events := rec.all()
	var cleanups, reconnects []int
	for i, e := range events {
		switch {
		case len(e) > 8 && e[:8] == "cleanup:":
			cleanups = append(cleanups, i)
		case len(e) > 10 && e[:10] == "reconnect:":
			reconnects = append(reconnects, i)
		}
	}
	if len(cleanups) != 5*cycles || len(reconnects) != 5*cycles {
		t.Fatalf("event counts do not match : %v", events)
	}
	for cycle := 0; cycle < cycles; cycle++ {
		for i := 0; i < 5; i++ {
			cleanupEvent := events[cleanups[cycle*5+i]]
			if expected := fmt.Sprintf("cleanup:f%d", 4-i); cleanupEvent != expected {
				t.Errorf("cycle %d : cleanup order does not match : got %v, expected %v", cycle, cleanupEvent, expected)
			}
			reconnectEvent := events[reconnects[cycle*5+i]]
			if expected := fmt.Sprintf("reconnect:f%d", i); reconnectEvent != expected {
				t.Errorf("cycle %d : reconnect order does not match : got %v, expected %v", cycle, reconnectEvent, expected)
			}
		}
		if cleanups[cycle*5+4] > reconnects[cycle*5] {
			t.Errorf("cycle %d : all cleanups must precede the reconnects : %v", cycle, events)
		}
	}
}

func TestCleanupBeforeExecuteIsSafe(t *testing.T) {
	rec := &recorder{}
	registry := boot.NewRegistry(boot.Settings{Name: "early_cleanup_test"})
	if err := registry.LoadOnly(tenUnits(rec)); err != nil {
		t.Fatal(err)
	}

	// never ran - units must tolerate having nothing to clean up
	registry.CleanupBeforeFork()
	for i := 0; i < 5; i++ {
		if rec.count(fmt.Sprintf("cleanup:f%d", i)) != 1 {
			t.Errorf("f%d should have been cleaned up : %v", i, rec.all())
		}
	}
}

func TestCleanupPanicDoesNotBlockSiblings(t *testing.T) {
	rec := &recorder{}
	registrations := []*boot.Registration{
		forkReg(rec, "a", []boot.Token{"ta"}, nil),
		boot.NewRegistration(
			boot.NewDescriptor("b", boot.PhaseForkSensitive, "1.0.0", []boot.Token{"tb"}, boot.Dependencies{"ta": nil}),
			func() boot.Initializer { return &forkUnit{name: "b", rec: rec, cleanupPanic: true} },
		),
		forkReg(rec, "c", nil, boot.Dependencies{"tb": nil}),
	}
	registry := boot.NewRegistry(boot.Settings{Name: "cleanup_panic_test"})
	if err := registry.LoadOnly(registrations); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}

	registry.CleanupBeforeFork()
	for _, name := range []string{"a", "b", "c"} {
		if rec.count("cleanup:"+name) != 1 {
			t.Errorf("%s should have been cleaned up despite the sibling panic : %v", name, rec.all())
		}
	}
}

func TestReconnectFailureAbortsPass(t *testing.T) {
	rec := &recorder{}
	failure := errors.New("nats unreachable")
	registrations := []*boot.Registration{
		forkReg(rec, "a", []boot.Token{"ta"}, nil),
		boot.NewRegistration(
			boot.NewDescriptor("b", boot.PhaseForkSensitive, "1.0.0", []boot.Token{"tb"}, boot.Dependencies{"ta": nil}),
			func() boot.Initializer { return &forkUnit{name: "b", rec: rec, reconnectErr: failure} },
		),
		forkReg(rec, "c", nil, boot.Dependencies{"tb": nil}),
	}
	registry := boot.NewRegistry(boot.Settings{Name: "reconnect_failure_test"})
	if err := registry.LoadOnly(registrations); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}

	registry.CleanupBeforeFork()
	err := registry.ReconnectAfterFork()
	if err == nil {
		t.Fatal("expected a ReconnectError")
	}
	reconnectErr, ok := err.(*boot.ReconnectError)
	if !ok {
		t.Fatalf("error type does not match : %T : %v", err, err)
	}
	if reconnectErr.Name != "b" || !errors.Is(err, failure) {
		t.Errorf("error does not match : %v", reconnectErr)
	}
	if rec.count("reconnect:a") != 1 {
		t.Errorf("a should have reconnected before the failure : %v", rec.all())
	}
	if rec.count("reconnect:c") != 0 {
		t.Errorf("a failed pass must not reconnect later initializers : %v", rec.all())
	}
	t.Log(err)
}

func TestConcurrentReads(t *testing.T) {
	rec := &recorder{}
	registry := boot.NewRegistry(boot.Settings{Name: "concurrent_test"})
	if err := registry.LoadOnly(tenUnits(rec)); err != nil {
		t.Fatal(err)
	}
	if err := registry.RunAll(nil); err != nil {
		t.Fatal(err)
	}

	const readers = 16
	const iterations = 200
	var wg sync.WaitGroup
	errs := make(chan string, readers)
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if n := registry.InitializerCount(); n != 10 {
					errs <- fmt.Sprintf("initializer count does not match : %d", n)
					return
				}
				if n := len(registry.ForkSensitiveInitializers()); n != 5 {
					errs <- fmt.Sprintf("fork-sensitive count does not match : %d", n)
					return
				}
				if n := len(registry.Initializers()); n != 10 {
					errs <- fmt.Sprintf("initializers size does not match : %d", n)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func noopChainRegistrations(n int) []*boot.Registration {
	registrations := make([]*boot.Registration, n)
	for i, desc := range chainDescriptors(n) {
		phase := boot.PhasePreload
		if i%2 == 1 {
			phase = boot.PhaseForkSensitive
		}
		desc = boot.NewDescriptor(desc.Name(), phase, "1.0.0", desc.Provides(), desc.DependsOn())
		name := desc.Name()
		if phase.ForkSensitive() {
			registrations[i] = boot.NewRegistration(desc, func() boot.Initializer {
				return &forkUnit{name: name, rec: &recorder{}}
			})
		} else {
			registrations[i] = boot.NewRegistration(desc, func() boot.Initializer {
				return &preloadUnit{name: name, rec: &recorder{}}
			})
		}
	}
	return registrations
}

func TestBootAndForkCycleTimings(t *testing.T) {
	timeBoot := func(t *testing.T, n int, budget time.Duration) {
		registry := boot.NewRegistry(boot.Settings{Name: fmt.Sprintf("timing_%d_test", n)})
		start := time.Now()
		if err := registry.LoadOnly(noopChainRegistrations(n)); err != nil {
			t.Fatal(err)
		}
		if err := registry.RunAll(nil); err != nil {
			t.Fatal(err)
		}
		elapsed := time.Since(start)
		t.Logf("booted %d units in %v", n, elapsed)
		if elapsed > budget {
			t.Errorf("booting %d units took too long : %v", n, elapsed)
		}

		// a full fork cycle over trivial units must stay within the same budget
		start = time.Now()
		registry.CleanupBeforeFork()
		if err := registry.ReconnectAfterFork(); err != nil {
			t.Fatal(err)
		}
		elapsed = time.Since(start)
		t.Logf("fork cycle over %d units in %v", n, elapsed)
		if elapsed > budget {
			t.Errorf("the fork cycle over %d units took too long : %v", n, elapsed)
		}
	}
	timeBoot(t, 10, 100*time.Millisecond)
	timeBoot(t, 50, 200*time.Millisecond)
}

func TestLoadTiming(t *testing.T) {
	registry := boot.NewRegistry(boot.Settings{Name: "load_timing_test"})
	registrations := noopChainRegistrations(50)
	start := time.Now()
	if err := registry.LoadOnly(registrations); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)
	t.Logf("loaded 50 units in %v", elapsed)
	if elapsed > 50*time.Millisecond {
		t.Errorf("loading 50 units took too long : %v", elapsed)
	}

	start = time.Now()
	forkSensitive := registry.ForkSensitiveInitializers()
	elapsed = time.Since(start)
	t.Logf("filtered %d fork-sensitive units in %v", len(forkSensitive), elapsed)
	if elapsed > 10*time.Millisecond {
		t.Errorf("filtering took too long : %v", elapsed)
	}
}
