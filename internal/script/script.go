// Package script reads scripted answer sequences used to replay or
// simulate a session offline.
package script

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/session"
	"github.com/abhisek/bloomclimb/internal/speed"
)

// Script is a YAML answer script.
type Script struct {
	StartLevel     string   `yaml:"start_level"`
	NominalSeconds float64  `yaml:"nominal_seconds"`
	Answers        []Answer `yaml:"answers"`

	start  level.Level
	events []engine.AnswerEvent
}

// Answer is one scripted answer. Fast and Slow override the thresholds
// derived from NominalSeconds; Level overrides the presented level.
type Answer struct {
	Question string   `yaml:"question"`
	Correct  bool     `yaml:"correct"`
	Elapsed  float64  `yaml:"elapsed"`
	Fast     *float64 `yaml:"fast"`
	Slow     *float64 `yaml:"slow"`
	Level    string   `yaml:"level"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	if s.StartLevel != "" {
		l, err := level.Parse(s.StartLevel)
		if err != nil {
			return nil, fmt.Errorf("start_level: %w", err)
		}
		s.start = l
	}
	if s.NominalSeconds < 0 || math.IsNaN(s.NominalSeconds) || math.IsInf(s.NominalSeconds, 0) {
		return nil, fmt.Errorf("nominal_seconds must be a finite, non-negative number")
	}

	s.events = make([]engine.AnswerEvent, 0, len(s.Answers))
	for i, a := range s.Answers {
		ev, err := s.event(a)
		if err != nil {
			return nil, fmt.Errorf("answers[%d]: %w", i, err)
		}
		s.events = append(s.events, ev)
	}
	return &s, nil
}

func (s *Script) event(a Answer) (engine.AnswerEvent, error) {
	ev := engine.AnswerEvent{
		QuestionID: a.Question,
		Correct:    a.Correct,
		Elapsed:    a.Elapsed,
	}
	if err := engine.CheckElapsed(a.Elapsed); err != nil {
		return ev, err
	}

	th, err := ResolveThresholds(a.Fast, a.Slow, s.NominalSeconds)
	if err != nil {
		return ev, err
	}
	ev.Thresholds = th

	if a.Level != "" {
		l, err := level.Parse(a.Level)
		if err != nil {
			return ev, fmt.Errorf("level: %w", err)
		}
		ev.Level = l
	}
	return ev, nil
}

// ResolveThresholds combines explicit boundaries with ones derived from a
// nominal answer time. A boundary left nil is taken from speed.Fallback,
// which requires nominal > 0.
func ResolveThresholds(fast, slow *float64, nominal float64) (speed.Thresholds, error) {
	var th speed.Thresholds
	if !finite(fast) || !finite(slow) {
		return th, fmt.Errorf("fast/slow thresholds must be finite numbers")
	}
	if fast == nil || slow == nil {
		if nominal <= 0 {
			return th, fmt.Errorf("missing fast/slow thresholds and no nominal_seconds to derive them")
		}
		th = speed.Fallback(nominal)
	}
	if fast != nil {
		th.Fast = *fast
	}
	if slow != nil {
		th.Slow = *slow
	}
	return th, nil
}

func finite(v *float64) bool {
	return v == nil || !(math.IsNaN(*v) || math.IsInf(*v, 0))
}

// Start returns the script's start level, or def when none is set.
func (s *Script) Start(def level.Level) level.Level {
	if s.start.Valid() {
		return s.start
	}
	return def
}

// Events returns the parsed answers. Events without an explicit level have
// a zero Level, which the tracker replaces with its current level.
func (s *Script) Events() []engine.AnswerEvent {
	out := make([]engine.AnswerEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Run submits every answer to the tracker in order and returns the outcomes.
func (s *Script) Run(tr *session.Tracker) []engine.Outcome {
	outs := make([]engine.Outcome, 0, len(s.events))
	for _, ev := range s.events {
		outs = append(outs, tr.SubmitAnswer(ev))
	}
	return outs
}
