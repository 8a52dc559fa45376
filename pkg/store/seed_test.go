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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

const validSeed = `
subjects:
  - subject: guest
    namespace: guest
    authkey:
      uuid: guest-uuid
      key: guest-key

packages:
  - namespace: whisk.system
    name: heavymeta
    annotations:
      - key: meta
        value: true
      - key: get
        value: getApi

actions:
  - namespace: whisk.system
    name: heavymeta/getApi
    parameters:
      - key: y
        value: Y

triggers:
  - namespace: guest
    name: events
    rules:
      r1:
        action: /guest/a1
        status: ACTIVE
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	seed, err := LoadSeedFile(writeSeedFile(t, validSeed))
	require.NoError(t, err)

	require.Len(t, seed.Subjects, 1)
	assert.Equal(t, "guest-uuid", seed.Subjects[0].AuthKey.UUID)

	require.Len(t, seed.Packages, 1)
	meta, ok := seed.Packages[0].Annotations.Bool("meta")
	assert.True(t, ok)
	assert.True(t, meta)

	require.Len(t, seed.Triggers, 1)
	rule := seed.Triggers[0].Rules["r1"]
	assert.Equal(t, entity.RuleStatusActive, rule.Status)
	assert.Equal(t, "/guest/a1", rule.Action.String())
}

func TestLoadSeedFileSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing authkey", `
subjects:
  - subject: guest
    namespace: guest
`},
		{"bad rule status", `
triggers:
  - namespace: guest
    name: t
    rules:
      r1:
        action: /guest/a1
        status: PAUSED
`},
		{"unknown top-level key", `
bogus: true
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeedFile(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSeedApply(t *testing.T) {
	ctx := context.Background()
	seed, err := LoadSeedFile(writeSeedFile(t, validSeed))
	require.NoError(t, err)

	s := NewMemoryStore()
	require.NoError(t, seed.Apply(ctx, s))

	pkg, err := s.GetPackage(ctx, "whisk.system/heavymeta")
	require.NoError(t, err)
	assert.Equal(t, "heavymeta", pkg.Name)

	action, err := s.GetAction(ctx, "whisk.system/heavymeta/getApi")
	require.NoError(t, err)
	v, ok := action.Parameters.Get("y")
	assert.True(t, ok)
	assert.Equal(t, "Y", v)

	id, err := s.Authenticate(ctx, "guest-uuid", "guest-key")
	require.NoError(t, err)
	assert.Equal(t, "guest", id.Namespace)
}
