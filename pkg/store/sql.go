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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

// Document kinds stored in the entities table.
const (
	kindPackage = "package"
	kindAction  = "action"
	kindTrigger = "trigger"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS entities (
	doc_id   TEXT NOT NULL,
	kind     TEXT NOT NULL,
	document TEXT NOT NULL,
	PRIMARY KEY (doc_id, kind)
);

CREATE TABLE IF NOT EXISTS subjects (
	subject  TEXT NOT NULL PRIMARY KEY,
	uuid     TEXT NOT NULL,
	document TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_subjects_uuid ON subjects (uuid);

CREATE TABLE IF NOT EXISTS trigger_activations (
	activation_id TEXT NOT NULL PRIMARY KEY,
	namespace     TEXT NOT NULL,
	name          TEXT NOT NULL,
	document      TEXT NOT NULL
);
`

// SQLStore implements Store on top of a SQL database. The schema is a plain
// document table per store, so it works unchanged on SQLite and PostgreSQL.
type SQLStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLiteStore opens or creates a SQLite-backed store at dbPath.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLStore, error) {
	// WAL plus a single writer connection avoids "database is locked" errors
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=ON", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite store initialized",
		zap.String("database_path", dbPath),
		zap.String("journal_mode", "WAL"))
	return s, nil
}

// NewPostgresStore opens a PostgreSQL-backed store using the pgx stdlib
// driver.
func NewPostgresStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("PostgreSQL store initialized")
	return s, nil
}

func (s *SQLStore) initSchema() error {
	if _, err := s.db.Exec(sqlSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLStore) getEntity(ctx context.Context, docID, kind string, out any) error {
	query := s.db.Rebind("SELECT document FROM entities WHERE doc_id = ? AND kind = ?")

	var raw string
	err := s.db.QueryRowxContext(ctx, query, docID, kind).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", kind, docID, ErrNoDocument)
	}
	if err != nil {
		return fmt.Errorf("failed to query %s %q: %w", kind, docID, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode %s %q: %w", kind, docID, err)
	}
	return nil
}

func (s *SQLStore) putEntity(ctx context.Context, docID, kind string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s %q: %w", kind, docID, err)
	}

	query := s.db.Rebind(`INSERT INTO entities (doc_id, kind, document) VALUES (?, ?, ?)
		ON CONFLICT (doc_id, kind) DO UPDATE SET document = excluded.document`)
	if _, err := s.db.ExecContext(ctx, query, docID, kind, string(raw)); err != nil {
		return fmt.Errorf("failed to store %s %q: %w", kind, docID, err)
	}
	return nil
}

// GetPackage retrieves a package document by id.
func (s *SQLStore) GetPackage(ctx context.Context, docID string) (*entity.Package, error) {
	var pkg entity.Package
	if err := s.getEntity(ctx, docID, kindPackage, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// GetAction retrieves an action document by id.
func (s *SQLStore) GetAction(ctx context.Context, docID string) (*entity.Action, error) {
	var action entity.Action
	if err := s.getEntity(ctx, docID, kindAction, &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// GetTrigger retrieves a trigger document by id.
func (s *SQLStore) GetTrigger(ctx context.Context, docID string) (*entity.Trigger, error) {
	var trigger entity.Trigger
	if err := s.getEntity(ctx, docID, kindTrigger, &trigger); err != nil {
		return nil, err
	}
	return &trigger, nil
}

// GetSubject retrieves the identity record for a subject.
func (s *SQLStore) GetSubject(ctx context.Context, subject string) (*entity.Identity, error) {
	query := s.db.Rebind("SELECT document FROM subjects WHERE subject = ?")

	var raw string
	err := s.db.QueryRowxContext(ctx, query, subject).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subject %q: %w", subject, ErrNoDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subject %q: %w", subject, err)
	}

	var id entity.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("failed to decode subject %q: %w", subject, err)
	}
	return &id, nil
}

// Authenticate resolves Basic credentials to an identity.
func (s *SQLStore) Authenticate(ctx context.Context, uuid, key string) (*entity.Identity, error) {
	query := s.db.Rebind("SELECT document FROM subjects WHERE uuid = ?")

	var raw string
	err := s.db.QueryRowxContext(ctx, query, uuid).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuthenticationFailed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}

	var id entity.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("failed to decode auth record: %w", err)
	}
	if id.AuthKey.Key != key {
		return nil, ErrAuthenticationFailed
	}
	return &id, nil
}

// PutTriggerActivation persists a trigger activation record.
func (s *SQLStore) PutTriggerActivation(ctx context.Context, activation *entity.TriggerActivation) error {
	raw, err := json.Marshal(activation)
	if err != nil {
		return fmt.Errorf("failed to encode activation %q: %w", activation.ActivationID, err)
	}

	query := s.db.Rebind("INSERT INTO trigger_activations (activation_id, namespace, name, document) VALUES (?, ?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query, activation.ActivationID, activation.Namespace, activation.Name, string(raw)); err != nil {
		return fmt.Errorf("failed to store activation %q: %w", activation.ActivationID, err)
	}
	return nil
}

// PutPackage stores a package document.
func (s *SQLStore) PutPackage(ctx context.Context, pkg *entity.Package) error {
	return s.putEntity(ctx, pkg.FQN().DocID(), kindPackage, pkg)
}

// PutAction stores an action document. The action name may carry a package
// segment, e.g. "routemgmt/getApi".
func (s *SQLStore) PutAction(ctx context.Context, action *entity.Action) error {
	return s.putEntity(ctx, action.Namespace+"/"+action.Name, kindAction, action)
}

// PutTrigger stores a trigger document.
func (s *SQLStore) PutTrigger(ctx context.Context, trigger *entity.Trigger) error {
	return s.putEntity(ctx, trigger.FQN().DocID(), kindTrigger, trigger)
}

// PutSubject stores an identity record.
func (s *SQLStore) PutSubject(ctx context.Context, identity *entity.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode subject %q: %w", identity.Subject, err)
	}

	query := s.db.Rebind(`INSERT INTO subjects (subject, uuid, document) VALUES (?, ?, ?)
		ON CONFLICT (subject) DO UPDATE SET uuid = excluded.uuid, document = excluded.document`)
	if _, err := s.db.ExecContext(ctx, query, identity.Subject, identity.AuthKey.UUID, string(raw)); err != nil {
		return fmt.Errorf("failed to store subject %q: %w", identity.Subject, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
