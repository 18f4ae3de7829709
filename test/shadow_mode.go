// Package test - shadow_mode.go
// Headless play-through harness: drives the simulation core through
// scripted sessions without any network or audio attached, and checks
// the outcomes against the game rules. Used by cmd/test-runner before
// a deploy.
package test

import (
	"context"
	"fmt"
	"strings"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/player"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/world"
	"github.com/MViana87/LaCasaOscura/server/internal/engine"
	"github.com/MViana87/LaCasaOscura/server/internal/events"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
)

// TestResult captures the outcome of each scripted scenario.
type TestResult struct {
	ScenarioName string
	Expected     string
	Actual       string
	Passed       bool
	Reason       string
}

// ShadowModeTest runs scripted sessions against a fresh house.
type ShadowModeTest struct {
	logger  *logger.Logger
	results []TestResult
}

// NewShadowModeTest creates the harness.
func NewShadowModeTest() *ShadowModeTest {
	return &ShadowModeTest{
		logger:  logger.NewLogger(),
		results: make([]TestResult, 0),
	}
}

const tickStep = 1.0 / 60.0

// scriptedSession builds a session the harness can drive directly.
func (t *ShadowModeTest) scriptedSession() (*engine.Session, *events.EventLog, error) {
	house := world.Build()
	if err := house.Validate(); err != nil {
		return nil, nil, fmt.Errorf("house failed validation: %w", err)
	}
	el := events.NewEventLog(nil)
	s := engine.NewSession(house, el, nil, t.logger, engine.DefaultParams())
	return s, el, nil
}

// RunAll executes every scripted scenario.
func (t *ShadowModeTest) RunAll(ctx context.Context) {
	t.runFullClear()
	t.runOverload()
	t.runScareRestraint()
}

// runFullClear walks the winning path: three keys, then the exit.
func (t *ShadowModeTest) runFullClear() {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SCENARIO: FULL CLEAR")
	fmt.Println(strings.Repeat("=", 60))

	result := TestResult{ScenarioName: "Full clear", Expected: string(engine.StateWon)}

	s, el, err := t.scriptedSession()
	if err != nil {
		result.Reason = err.Error()
		t.results = append(t.results, result)
		return
	}
	s.Start()

	for _, id := range []string{world.DeskDrawerID, world.BookshelfID, world.MattressID, world.ExitDoorID} {
		// A little walking between searches, like a real player.
		for i := 0; i < 45; i++ {
			s.Tick(tickStep, player.Input{Forward: i%2 == 0, LookYaw: 0.01})
		}
		t.interactByID(s, id)
	}

	result.Actual = string(s.State())
	wonEvents := el.GetByType(events.EventTypeSessionWon)
	if s.State() == engine.StateWon && len(wonEvents) == 1 {
		result.Passed = true
		result.Reason = "Three keys opened the exit"
	} else {
		result.Reason = fmt.Sprintf("state=%s winEvents=%d", s.State(), len(wonEvents))
	}
	t.results = append(t.results, result)
	t.printVerdict(result)
}

// runOverload drives presence to capacity through reckless interaction.
func (t *ShadowModeTest) runOverload() {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SCENARIO: PRESENCE OVERLOAD")
	fmt.Println(strings.Repeat("=", 60))

	result := TestResult{ScenarioName: "Presence overload", Expected: string(engine.StateLost)}

	s, el, err := t.scriptedSession()
	if err != nil {
		result.Reason = err.Error()
		t.results = append(t.results, result)
		return
	}
	s.Start()

	// Hammer the locked exit until the Presence takes notice. Each
	// attempt costs more than a tick of decay returns, so the level
	// only climbs.
	for i := 0; i < 200 && s.State() == engine.StateRunning; i++ {
		t.interactByID(s, world.ExitDoorID)
		s.Tick(tickStep, player.Input{})
	}

	result.Actual = string(s.State())
	lostEvents := el.GetByType(events.EventTypeSessionLost)
	if s.State() == engine.StateLost && len(lostEvents) == 1 {
		result.Passed = true
		result.Reason = "Capacity reached, session ended in loss"
	} else {
		result.Reason = fmt.Sprintf("state=%s lossEvents=%d", s.State(), len(lostEvents))
	}
	t.results = append(t.results, result)
	t.printVerdict(result)
}

// runScareRestraint provokes the scare object repeatedly and checks the
// one-shot latch held.
func (t *ShadowModeTest) runScareRestraint() {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SCENARIO: SCARE RESTRAINT")
	fmt.Println(strings.Repeat("=", 60))

	result := TestResult{ScenarioName: "Scare restraint", Expected: "1 scare event"}

	s, el, err := t.scriptedSession()
	if err != nil {
		result.Reason = err.Error()
		t.results = append(t.results, result)
		return
	}
	s.Start()

	for i := 0; i < 5; i++ {
		t.interactByID(s, world.WardrobeID)
		s.Tick(tickStep, player.Input{})
	}

	scares := el.GetByType(events.EventTypeScareTriggered)
	result.Actual = fmt.Sprintf("%d scare events", len(scares))
	if len(scares) == 1 && s.State() == engine.StateRunning {
		result.Passed = true
		result.Reason = "One-shot latch held across repeated provocations"
	} else {
		result.Reason = fmt.Sprintf("scares=%d state=%s", len(scares), s.State())
	}
	t.results = append(t.results, result)
	t.printVerdict(result)
}

// interactByID aims the state machine at one object directly, bypassing
// the raycast so scripts do not depend on walking accuracy.
func (t *ShadowModeTest) interactByID(s *engine.Session, id string) {
	if !s.InteractWithObject(id) {
		t.logger.Warn("Script references unknown object: " + id)
	}
}

func (t *ShadowModeTest) printVerdict(result TestResult) {
	if result.Passed {
		fmt.Printf("PASSED: %s (%s)\n", result.ScenarioName, result.Reason)
	} else {
		fmt.Printf("FAILED: %s (%s)\n", result.ScenarioName, result.Reason)
	}
}

// GetResults returns all scenario results.
func (t *ShadowModeTest) GetResults() []TestResult {
	return t.results
}
