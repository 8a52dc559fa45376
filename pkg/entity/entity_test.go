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

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersMap(t *testing.T) {
	p := Parameters{
		{Key: "a", Value: "first"},
		{Key: "b", Value: float64(2)},
		{Key: "a", Value: "second"},
	}

	m := p.Map()
	assert.Len(t, m, 2)
	assert.Equal(t, "second", m["a"], "later entry must win")
	assert.Equal(t, float64(2), m["b"])
}

func TestParametersGet(t *testing.T) {
	p := Parameters{
		{Key: "x", Value: "one"},
		{Key: "x", Value: "two"},
	}

	v, ok := p.Get("x")
	require.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestAnnotationsBool(t *testing.T) {
	a := Annotations{
		{Key: "meta", Value: true},
		{Key: "get", Value: "getApi"},
		{Key: "count", Value: float64(3)},
	}

	b, ok := a.Bool("meta")
	assert.True(t, ok)
	assert.True(t, b)

	// String value is not a boolean annotation
	_, ok = a.Bool("get")
	assert.False(t, ok)

	_, ok = a.Bool("absent")
	assert.False(t, ok)
}

func TestAnnotationsString(t *testing.T) {
	a := Annotations{
		{Key: "get", Value: "getApi"},
		{Key: "meta", Value: true},
	}

	s, ok := a.String("get")
	assert.True(t, ok)
	assert.Equal(t, "getApi", s)

	_, ok = a.String("meta")
	assert.False(t, ok)
}

func TestParseFQNRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FullyQualifiedName
	}{
		{"two segments", "/whisk.system/routemgmt", FullyQualifiedName{Namespace: "whisk.system", Name: "routemgmt"}},
		{"three segments", "/guest/util/echo", FullyQualifiedName{Namespace: "guest", Package: "util", Name: "echo"}},
		{"no leading slash", "guest/echo", FullyQualifiedName{Namespace: "guest", Name: "echo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fqn, err := ParseFQN(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fqn)

			// Canonical form must round-trip
			again, err := ParseFQN(fqn.String())
			require.NoError(t, err)
			assert.Equal(t, fqn, again)
		})
	}
}

func TestParseFQNInvalid(t *testing.T) {
	for _, input := range []string{"", "/", "nameonly", "/a//b", "/a/b/c/d"} {
		_, err := ParseFQN(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestActiveRulesOrderAndFilter(t *testing.T) {
	trigger := &Trigger{
		Namespace: "guest",
		Name:      "t",
		Rules: map[string]RuleRef{
			"r3": {Action: FullyQualifiedName{Namespace: "guest", Name: "a3"}, Status: RuleStatusActive},
			"r1": {Action: FullyQualifiedName{Namespace: "guest", Name: "a1"}, Status: RuleStatusActive},
			"r2": {Action: FullyQualifiedName{Namespace: "guest", Name: "a2"}, Status: RuleStatusInactive},
		},
	}

	rules := trigger.ActiveRules()
	require.Len(t, rules, 2)
	assert.Equal(t, "r1", rules[0].Name)
	assert.Equal(t, "r3", rules[1].Name)
}
