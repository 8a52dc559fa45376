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

package meta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/serverlessworks/meta-controller/pkg/entity"
	"github.com/serverlessworks/meta-controller/pkg/store"
)

const systemNS = "whisk.system"

func seedResolverStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()

	packages := []entity.Package{
		{
			Namespace:   systemNS,
			Name:        "notmeta",
			Annotations: entity.Annotations{{Key: "meta", Value: false}},
		},
		{
			Namespace:   systemNS,
			Name:        "badmeta",
			Annotations: entity.Annotations{{Key: "meta", Value: true}},
		},
		{
			Namespace: systemNS,
			Name:      "heavymeta",
			Annotations: entity.Annotations{
				{Key: "meta", Value: true},
				{Key: "get", Value: "getApi"},
				{Key: "post", Value: "createRoute"},
				{Key: "delete", Value: "deleteApi"},
			},
		},
		{
			Namespace: systemNS,
			Name:      "publicmeta",
			Publish:   true,
			Annotations: entity.Annotations{
				{Key: "meta", Value: true},
				{Key: "get", Value: "getApi"},
			},
		},
	}
	for i := range packages {
		require.NoError(t, s.PutPackage(ctx, &packages[i]))
	}

	require.NoError(t, s.PutAction(ctx, &entity.Action{
		Namespace:  systemNS,
		Name:       "heavymeta/getApi",
		Parameters: entity.Parameters{{Key: "y", Value: "Y"}, {Key: "z", Value: "Z"}},
	}))

	return s
}

func TestResolveMapsVerbToAction(t *testing.T) {
	s := seedResolverStore(t)
	r := NewResolver(s, systemNS)

	for verb, action := range map[string]string{
		"GET":    "getApi",
		"POST":   "createRoute",
		"DELETE": "deleteApi",
	} {
		resolved, err := r.Resolve(context.Background(), zap.NewNop(), "heavymeta", verb)
		require.NoError(t, err, "verb %s", verb)
		assert.Equal(t, action, resolved.ActionName)
		assert.Equal(t, "heavymeta/"+action, resolved.ActionPath())
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	s := seedResolverStore(t)
	r := NewResolver(s, systemNS)

	first, err := r.Resolve(context.Background(), zap.NewNop(), "heavymeta", "GET")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), zap.NewNop(), "heavymeta", "GET")
	require.NoError(t, err)

	assert.Equal(t, first.ActionName, second.ActionName)
	assert.Equal(t, first.Package.Name, second.Package.Name)
}

func TestResolveFailures(t *testing.T) {
	s := seedResolverStore(t)
	r := NewResolver(s, systemNS)

	tests := []struct {
		name string
		pkg  string
		verb string
		kind ErrorKind
	}{
		{"empty package name", "", "GET", KindNotFound},
		{"unknown package", "ghost", "GET", KindNotMeta},
		{"meta false", "notmeta", "GET", KindNotMeta},
		{"no verb annotations", "badmeta", "GET", KindVerbNotMapped},
		{"verb outside allow list", "heavymeta", "PUT", KindVerbNotMapped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), zap.NewNop(), tt.pkg, tt.verb)
			require.Error(t, err)
			var resErr *ResolutionError
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, tt.kind, resErr.Kind)
		})
	}
}

func TestResolvePublicPackageWarns(t *testing.T) {
	s := seedResolverStore(t)
	r := NewResolver(s, systemNS)

	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	_, err := r.Resolve(context.Background(), log, "publicmeta", "GET")
	require.NoError(t, err)

	entries := logs.FilterMessage("meta package is public").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "/whisk.system/publicmeta", entries[0].ContextMap()["package"])
}

func TestActionParameters(t *testing.T) {
	s := seedResolverStore(t)
	r := NewResolver(s, systemNS)

	resolved, err := r.Resolve(context.Background(), zap.NewNop(), "heavymeta", "GET")
	require.NoError(t, err)

	params, err := r.ActionParameters(context.Background(), resolved)
	require.NoError(t, err)
	v, ok := params.Get("y")
	assert.True(t, ok)
	assert.Equal(t, "Y", v)
}

func TestActionParametersMissingAction(t *testing.T) {
	s := seedResolverStore(t)
	r := NewResolver(s, systemNS)

	// publicmeta's getApi has no action document seeded
	resolved, err := r.Resolve(context.Background(), zap.NewNop(), "publicmeta", "GET")
	require.NoError(t, err)

	_, err = r.ActionParameters(context.Background(), resolved)
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, KindActionMissing, resErr.Kind)
}
