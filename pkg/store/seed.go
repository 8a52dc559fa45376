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
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

//go:embed seed_schema.json
var seedSchemaJSON string

// SeedFile is a YAML document of entities loaded into the stores at startup.
type SeedFile struct {
	Subjects []entity.Identity `json:"subjects"`
	Packages []entity.Package  `json:"packages"`
	Actions  []entity.Action   `json:"actions"`
	Triggers []entity.Trigger  `json:"triggers"`
}

// LoadSeedFile parses and validates a seed file. The YAML is validated
// against the embedded JSON schema before any document is decoded, so a
// malformed file is rejected as a whole.
func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	jsonRaw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert seed file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchemaJSON),
		gojsonschema.NewBytesLoader(jsonRaw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate seed file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid seed file %s: %s", path, strings.Join(msgs, "; "))
	}

	var seed SeedFile
	if err := json.Unmarshal(jsonRaw, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &seed, nil
}

// Apply writes all seed documents into the store.
func (s *SeedFile) Apply(ctx context.Context, w EntityWriter) error {
	for i := range s.Subjects {
		if err := w.PutSubject(ctx, &s.Subjects[i]); err != nil {
			return fmt.Errorf("failed to seed subject %q: %w", s.Subjects[i].Subject, err)
		}
	}
	for i := range s.Packages {
		if err := w.PutPackage(ctx, &s.Packages[i]); err != nil {
			return fmt.Errorf("failed to seed package %q: %w", s.Packages[i].Name, err)
		}
	}
	for i := range s.Actions {
		if err := w.PutAction(ctx, &s.Actions[i]); err != nil {
			return fmt.Errorf("failed to seed action %q: %w", s.Actions[i].Name, err)
		}
	}
	for i := range s.Triggers {
		if err := w.PutTrigger(ctx, &s.Triggers[i]); err != nil {
			return fmt.Errorf("failed to seed trigger %q: %w", s.Triggers[i].Name, err)
		}
	}
	return nil
}
