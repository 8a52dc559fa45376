/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

// MemoryStore holds all documents in memory. Used for tests and the
// memory storage type.
type MemoryStore struct {
	mu          sync.RWMutex
	packages    map[string]*entity.Package
	actions     map[string]*entity.Action
	triggers    map[string]*entity.Trigger
	subjects    map[string]*entity.Identity // key: subject
	byUUID      map[string]*entity.Identity // key: authkey uuid
	activations map[string]*entity.TriggerActivation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		packages:    make(map[string]*entity.Package),
		actions:     make(map[string]*entity.Action),
		triggers:    make(map[string]*entity.Trigger),
		subjects:    make(map[string]*entity.Identity),
		byUUID:      make(map[string]*entity.Identity),
		activations: make(map[string]*entity.TriggerActivation),
	}
}

// GetPackage retrieves a package document by id.
func (s *MemoryStore) GetPackage(_ context.Context, docID string) (*entity.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, ok := s.packages[docID]
	if !ok {
		return nil, fmt.Errorf("package %q: %w", docID, ErrNoDocument)
	}
	cp := *pkg
	return &cp, nil
}

// GetAction retrieves an action document by id.
func (s *MemoryStore) GetAction(_ context.Context, docID string) (*entity.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	action, ok := s.actions[docID]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", docID, ErrNoDocument)
	}
	cp := *action
	return &cp, nil
}

// GetTrigger retrieves a trigger document by id.
func (s *MemoryStore) GetTrigger(_ context.Context, docID string) (*entity.Trigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trigger, ok := s.triggers[docID]
	if !ok {
		return nil, fmt.Errorf("trigger %q: %w", docID, ErrNoDocument)
	}
	cp := *trigger
	return &cp, nil
}

// GetSubject retrieves the identity record for a subject.
func (s *MemoryStore) GetSubject(_ context.Context, subject string) (*entity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.subjects[subject]
	if !ok {
		return nil, fmt.Errorf("subject %q: %w", subject, ErrNoDocument)
	}
	cp := *id
	return &cp, nil
}

// Authenticate resolves Basic credentials to an identity.
func (s *MemoryStore) Authenticate(_ context.Context, uuid, key string) (*entity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUUID[uuid]
	if !ok || id.AuthKey.Key != key {
		return nil, ErrAuthenticationFailed
	}
	cp := *id
	return &cp, nil
}

// PutTriggerActivation persists a trigger activation record.
func (s *MemoryStore) PutTriggerActivation(_ context.Context, activation *entity.TriggerActivation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *activation
	s.activations[activation.ActivationID] = &cp
	return nil
}

// GetTriggerActivation retrieves a stored activation record. Used by tests;
// the serving path never reads activations back.
func (s *MemoryStore) GetTriggerActivation(_ context.Context, activationID string) (*entity.TriggerActivation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	act, ok := s.activations[activationID]
	if !ok {
		return nil, fmt.Errorf("activation %q: %w", activationID, ErrNoDocument)
	}
	cp := *act
	return &cp, nil
}

// PutPackage stores a package document keyed by namespace/name.
func (s *MemoryStore) PutPackage(_ context.Context, pkg *entity.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *pkg
	s.packages[pkg.FQN().DocID()] = &cp
	return nil
}

// PutAction stores an action document keyed by namespace[/package]/name.
func (s *MemoryStore) PutAction(_ context.Context, action *entity.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *action
	s.actions[action.Namespace+"/"+action.Name] = &cp
	return nil
}

// PutTrigger stores a trigger document keyed by namespace/name.
func (s *MemoryStore) PutTrigger(_ context.Context, trigger *entity.Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *trigger
	s.triggers[trigger.FQN().DocID()] = &cp
	return nil
}

// PutSubject stores an identity record indexed by subject and key uuid.
func (s *MemoryStore) PutSubject(_ context.Context, identity *entity.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *identity
	s.subjects[identity.Subject] = &cp
	s.byUUID[identity.AuthKey.UUID] = &cp
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
