// Package tools assembles the domain tool modules into one registry.
package tools

import (
	"math/rand"

	"github.com/pilotedu/studypilot/framework"
	"github.com/pilotedu/studypilot/tools/calendar"
	"github.com/pilotedu/studypilot/tools/grades"
	"github.com/pilotedu/studypilot/tools/lms"
	"github.com/pilotedu/studypilot/tools/study"
	"github.com/pilotedu/studypilot/tools/wellness"
)

// Stores bundles the per-module state so callers can seed everything once and
// reach into individual modules when they need to.
type Stores struct {
	LMS      *lms.Store
	Calendar *calendar.Store
	Grades   *grades.Store
	Study    *study.Store
	Wellness *wellness.Store
}

// NewStores seeds every domain store with a shared clock and random source.
// Either may be nil for production defaults.
func NewStores(clock framework.Clock, rng *rand.Rand) *Stores {
	return &Stores{
		LMS:      lms.NewStore(clock),
		Calendar: calendar.NewStore(clock),
		Grades:   grades.NewStore(rng),
		Study:    study.NewStore(clock),
		Wellness: wellness.NewStore(clock, rng),
	}
}

// Registry builds a tool registry holding every domain module's tools.
func Registry(stores *Stores, clock framework.Clock) (*framework.Registry, error) {
	registry := framework.NewRegistry(clock)
	for _, set := range [][]framework.Tool{
		lms.Tools(stores.LMS),
		calendar.Tools(stores.Calendar),
		grades.Tools(stores.Grades),
		study.Tools(stores.Study),
		wellness.Tools(stores.Wellness),
	} {
		if err := registry.Register(set...); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
