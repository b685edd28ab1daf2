// Copyright 2025 LunaBeam Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Event names what happened to cause a transition. Transitions can also be
// requested directly by target state.
type Event string

// ErrInvalidTransition is returned for transitions that were never allowed.
var ErrInvalidTransition = errors.New("invalid transition")

// StateHook runs after a state has been entered.
type StateHook[T comparable] func(state T) error

// TransitionValidator can veto a transition that the table allows.
type TransitionValidator[T comparable] func(from, to T, event Event) error

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

// StateMachine is a small generic finite state machine. It is safe for
// concurrent use.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	current T

	validTransitions map[T][]T
	eventTransitions map[transitionKey[T]]T

	onEnter    map[T][]StateHook[T]
	validators []TransitionValidator[T]
}

func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
		eventTransitions: make(map[transitionKey[T]]T),
		onEnter:          make(map[T][]StateHook[T]),
	}
}

func NewWithState[T comparable](initial T) *StateMachine[T] {
	sm := New[T]()
	sm.current = initial
	return sm
}

// Allow registers the valid targets reachable from a state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.validTransitions[from], target) {
			sm.validTransitions[from] = append(sm.validTransitions[from], target)
		}
	}
	return sm
}

// On binds an event in a state to its target state, allowing the transition.
func (sm *StateMachine[T]) On(from T, event Event, to T) *StateMachine[T] {
	sm.Allow(from, to)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.eventTransitions[transitionKey[T]{From: from, Event: event}] = to
	return sm
}

func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

func (sm *StateMachine[T]) ValidNextStates(from T) []T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.validTransitions[from])
}

func (sm *StateMachine[T]) OnEnter(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], h)
	return sm
}

func (sm *StateMachine[T]) AddValidator(v TransitionValidator[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.validators = append(sm.validators, v)
	return sm
}

// Transition moves the machine from one state to another. The machine must
// currently be in from; validators run before the move and enter hooks after.
func (sm *StateMachine[T]) Transition(from, to T, event Event) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current != from {
		return fmt.Errorf("%w: machine is in %v, not %v", ErrInvalidTransition, sm.current, from)
	}
	if !slices.Contains(sm.validTransitions[from], to) {
		return fmt.Errorf("%w: %v → %v", ErrInvalidTransition, from, to)
	}
	for _, validator := range sm.validators {
		if err := validator(from, to, event); err != nil {
			return err
		}
	}

	sm.current = to

	for _, h := range sm.onEnter[to] {
		if err := h(to); err != nil {
			return fmt.Errorf("enter hook failed for state %v: %w", to, err)
		}
	}
	return nil
}

// TransitionTo moves from the current state to the target.
func (sm *StateMachine[T]) TransitionTo(to T) error {
	return sm.Transition(sm.Current(), to, "")
}

// Fire looks up the target for event in the current state and transitions.
func (sm *StateMachine[T]) Fire(event Event) (T, error) {
	sm.mu.RLock()
	from := sm.current
	to, ok := sm.eventTransitions[transitionKey[T]{From: from, Event: event}]
	sm.mu.RUnlock()

	if !ok {
		return from, fmt.Errorf("%w: no %q event in state %v", ErrInvalidTransition, event, from)
	}
	if err := sm.Transition(from, to, event); err != nil {
		return from, err
	}
	return to, nil
}
