/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"fmt"
	"sync"
)

// ProfileRegistry is a thread-safe registry of named per-call
// configuration profiles. Callers register the overrides for the tables
// they work with once (for example, "contacts" or "inventory") and pass
// the looked-up profile to client operations.
type ProfileRegistry struct {
	mu       sync.RWMutex
	profiles map[string]*CallOptions
}

// NewProfileRegistry creates and returns a new ProfileRegistry.
func NewProfileRegistry() *ProfileRegistry {
	return &ProfileRegistry{
		profiles: make(map[string]*CallOptions),
	}
}

// Register stores the profile under the given name.
func (pr *ProfileRegistry) Register(name string, profile *CallOptions) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if _, exists := pr.profiles[name]; exists {
		return fmt.Errorf("profile with name %q already registered", name)
	}
	pr.profiles[name] = profile
	return nil
}

// Get retrieves the profile registered under the given name.
func (pr *ProfileRegistry) Get(name string) (*CallOptions, error) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	profile, exists := pr.profiles[name]
	if !exists {
		return nil, fmt.Errorf("profile with name %q not found", name)
	}
	return profile, nil
}

// Remove deletes the profile registered under the given name.
func (pr *ProfileRegistry) Remove(name string) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if _, exists := pr.profiles[name]; !exists {
		return fmt.Errorf("profile with name %q not found", name)
	}
	delete(pr.profiles, name)
	return nil
}

// List returns all registered profile names.
func (pr *ProfileRegistry) List() []string {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	names := make([]string, 0, len(pr.profiles))
	for name := range pr.profiles {
		names = append(names, name)
	}
	return names
}
