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

// Package store provides the document stores backing the controller:
// entities (packages, actions, triggers), auth records and trigger
// activations. Implementations exist for memory, SQLite and PostgreSQL.
package store

import (
	"context"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

// EntityStore reads entity documents by document id (namespace/name or
// namespace/package/name). Missing documents yield ErrNoDocument.
type EntityStore interface {
	// GetPackage retrieves a package document
	GetPackage(ctx context.Context, docID string) (*entity.Package, error)

	// GetAction retrieves an action document
	GetAction(ctx context.Context, docID string) (*entity.Action, error)

	// GetTrigger retrieves a trigger document
	GetTrigger(ctx context.Context, docID string) (*entity.Trigger, error)
}

// AuthStore resolves principals. Subjects are unique; so are key uuids.
type AuthStore interface {
	// GetSubject retrieves the identity record for a subject
	GetSubject(ctx context.Context, subject string) (*entity.Identity, error)

	// Authenticate resolves Basic credentials to an identity, returning
	// ErrAuthenticationFailed when the pair matches no record
	Authenticate(ctx context.Context, uuid, key string) (*entity.Identity, error)
}

// ActivationStore persists trigger activation records. Each record is
// written exactly once.
type ActivationStore interface {
	// PutTriggerActivation persists a new trigger activation document
	PutTriggerActivation(ctx context.Context, activation *entity.TriggerActivation) error
}

// EntityWriter is the write side used by entity CRUD and the seed loader.
// The request path itself never writes entities.
type EntityWriter interface {
	PutPackage(ctx context.Context, pkg *entity.Package) error
	PutAction(ctx context.Context, action *entity.Action) error
	PutTrigger(ctx context.Context, trigger *entity.Trigger) error
	PutSubject(ctx context.Context, identity *entity.Identity) error
}

// Store is the full document store surface.
type Store interface {
	EntityStore
	AuthStore
	ActivationStore
	EntityWriter

	// Close closes the underlying storage
	Close() error
}
