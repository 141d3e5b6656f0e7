package tween

import (
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Power2Out decelerates to zero velocity with a cubic curve, matching the common "power2.out" preset.
var Power2Out ease.TweenFunc = ease.OutCubic

// Setter receives the interpolated value of a property every time a tween advances.
type Setter func(value float32)

type entry struct {
	tween *gween.Tween
	set   Setter
}

type group struct {
	mu     *sync.Mutex
	active map[string]*entry
}

// Group owns a set of running tweens keyed by property name. Starting a tween for a key that is
// already animating replaces the running tween, so the most recent target always wins.
// Tweens are advanced explicitly with Update; there is no global clock.
type Group interface {
	// To starts animating the property named key from one value to another.
	// Any tween already running for key is dropped without applying its end value.
	//
	// Parameters:
	//   - key: the property name, e.g. "rotation.x"
	//   - from: the starting value, normally the property's current value
	//   - to: the target value
	//   - duration: how long the tween runs; zero or negative applies the target immediately
	//   - easing: the easing curve, nil for Power2Out
	//   - set: callback receiving each interpolated value
	To(key string, from, to float32, duration time.Duration, easing ease.TweenFunc, set Setter)

	// Update advances every running tween by dt and applies the new values through their setters.
	// Finished tweens apply their final value and are removed.
	//
	// Parameters:
	//   - dt: elapsed time since the previous update
	//
	// Returns:
	//   - int: the number of tweens still running
	Update(dt time.Duration) int

	// Active reports whether a tween for key is running.
	//
	// Parameters:
	//   - key: the property name
	//
	// Returns:
	//   - bool: true if the property is animating
	Active(key string) bool

	// Len returns the number of running tweens.
	//
	// Returns:
	//   - int: the running tween count
	Len() int

	// Stop drops the tween for key without applying further values.
	//
	// Parameters:
	//   - key: the property name
	Stop(key string)
}

var _ Group = &group{}

// NewGroup creates an empty tween Group.
//
// Returns:
//   - Group: the new group
func NewGroup() Group {
	return &group{
		mu:     &sync.Mutex{},
		active: make(map[string]*entry),
	}
}

func (g *group) To(key string, from, to float32, duration time.Duration, easing ease.TweenFunc, set Setter) {
	if set == nil {
		return
	}
	if easing == nil {
		easing = Power2Out
	}
	g.mu.Lock()
	if duration <= 0 {
		delete(g.active, key)
		g.mu.Unlock()
		set(to)
		return
	}
	g.active[key] = &entry{
		tween: gween.New(from, to, float32(duration.Seconds()), easing),
		set:   set,
	}
	g.mu.Unlock()
}

func (g *group) Update(dt time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	step := float32(dt.Seconds())
	for key, e := range g.active {
		value, done := e.tween.Update(step)
		e.set(value)
		if done {
			delete(g.active, key)
		}
	}
	return len(g.active)
}

func (g *group) Active(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.active[key]
	return ok
}

func (g *group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active)
}

func (g *group) Stop(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}
