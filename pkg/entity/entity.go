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

// Package entity defines the document types stored in the entity, auth and
// activation stores: packages, actions, triggers, identities and trigger
// activations, together with the ordered key/value parameter and annotation
// lists they carry.
package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// KeyValue is a single named value. Parameters and annotations are ordered
// lists of these rather than maps so that merge order is deterministic.
type KeyValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Parameters is an ordered list of key/value pairs. When the same key appears
// more than once, the later entry wins.
type Parameters []KeyValue

// Map flattens the parameter list into a map. Later entries override earlier
// ones with the same key.
func (p Parameters) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, kv := range p {
		m[kv.Key] = kv.Value
	}
	return m
}

// Get returns the value for key and whether it was present. The last entry
// with the key wins, consistent with Map.
func (p Parameters) Get(key string) (any, bool) {
	var val any
	found := false
	for _, kv := range p {
		if kv.Key == key {
			val = kv.Value
			found = true
		}
	}
	return val, found
}

// Annotations share the representation of Parameters but are used for
// declarative control flags such as meta=true or get="getApi".
type Annotations []KeyValue

// Bool returns the annotation value for key if it is a JSON boolean.
// The second return is false when the key is absent or not a boolean.
func (a Annotations) Bool(key string) (bool, bool) {
	v, ok := Parameters(a).Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// String returns the annotation value for key if it is a JSON string.
func (a Annotations) String(key string) (string, bool) {
	v, ok := Parameters(a).Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AuthKey is the credential pair backing Basic authentication: the uuid is
// the username and the key the password.
type AuthKey struct {
	UUID string `json:"uuid"`
	Key  string `json:"key"`
}

// Identity is an authenticated principal as resolved by the auth layer.
// Immutable for the duration of a request.
type Identity struct {
	Subject   string  `json:"subject"`
	Namespace string  `json:"namespace"`
	AuthKey   AuthKey `json:"authkey"`
}

// FullyQualifiedName identifies an entity as /namespace[/package]/name.
type FullyQualifiedName struct {
	Namespace string
	Package   string
	Name      string
}

// ParseFQN parses the textual form of a fully qualified name. A leading
// slash is optional; two segments are namespace/name, three are
// namespace/package/name.
func ParseFQN(s string) (FullyQualifiedName, error) {
	trimmed := strings.TrimPrefix(s, "/")
	if trimmed == "" {
		return FullyQualifiedName{}, fmt.Errorf("empty entity name %q", s)
	}
	parts := strings.Split(trimmed, "/")
	for _, p := range parts {
		if p == "" {
			return FullyQualifiedName{}, fmt.Errorf("malformed entity name %q", s)
		}
	}
	switch len(parts) {
	case 2:
		return FullyQualifiedName{Namespace: parts[0], Name: parts[1]}, nil
	case 3:
		return FullyQualifiedName{Namespace: parts[0], Package: parts[1], Name: parts[2]}, nil
	default:
		return FullyQualifiedName{}, fmt.Errorf("malformed entity name %q", s)
	}
}

// String renders the canonical textual form with a leading slash.
// ParseFQN(f.String()) round-trips.
func (f FullyQualifiedName) String() string {
	if f.Package == "" {
		return "/" + f.Namespace + "/" + f.Name
	}
	return "/" + f.Namespace + "/" + f.Package + "/" + f.Name
}

// MarshalJSON serializes the name in its canonical textual form.
func (f FullyQualifiedName) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON parses the textual form back into the structured one.
func (f *FullyQualifiedName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFQN(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// DocID is the entity store document id: namespace/name without the leading
// slash, matching how documents are keyed in the store.
func (f FullyQualifiedName) DocID() string {
	if f.Package == "" {
		return f.Namespace + "/" + f.Name
	}
	return f.Namespace + "/" + f.Package + "/" + f.Name
}

// Package is a stored package document. A package is meta-routable when it
// carries the annotation meta=true plus at least one per-verb annotation.
type Package struct {
	Namespace   string      `json:"namespace"`
	Name        string      `json:"name"`
	Parameters  Parameters  `json:"parameters,omitempty"`
	Annotations Annotations `json:"annotations,omitempty"`
	Publish     bool        `json:"publish"`
}

// FQN returns the package's fully qualified name.
func (p *Package) FQN() FullyQualifiedName {
	return FullyQualifiedName{Namespace: p.Namespace, Name: p.Name}
}

// Action is a stored action document. Only the default parameters matter to
// the controller; exec is carried opaquely.
type Action struct {
	Namespace  string         `json:"namespace"`
	Name       string         `json:"name"`
	Parameters Parameters     `json:"parameters,omitempty"`
	Exec       map[string]any `json:"exec,omitempty"`
}
