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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

func TestMemoryStoreEntities(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	pkg := &entity.Package{
		Namespace: "whisk.system",
		Name:      "routemgmt",
		Annotations: entity.Annotations{
			{Key: "meta", Value: true},
			{Key: "get", Value: "getApi"},
		},
	}
	require.NoError(t, s.PutPackage(ctx, pkg))

	got, err := s.GetPackage(ctx, "whisk.system/routemgmt")
	require.NoError(t, err)
	assert.Equal(t, "routemgmt", got.Name)

	meta, ok := got.Annotations.Bool("meta")
	assert.True(t, ok)
	assert.True(t, meta)

	_, err = s.GetPackage(ctx, "whisk.system/missing")
	assert.True(t, IsNoDocument(err))
}

func TestMemoryStoreActionWithPackageSegment(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	action := &entity.Action{
		Namespace:  "whisk.system",
		Name:       "routemgmt/getApi",
		Parameters: entity.Parameters{{Key: "y", Value: "Y"}},
	}
	require.NoError(t, s.PutAction(ctx, action))

	got, err := s.GetAction(ctx, "whisk.system/routemgmt/getApi")
	require.NoError(t, err)
	assert.Equal(t, "routemgmt/getApi", got.Name)
}

func TestMemoryStoreAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id := &entity.Identity{
		Subject:   "guest",
		Namespace: "guest",
		AuthKey:   entity.AuthKey{UUID: "uuid-1", Key: "key-1"},
	}
	require.NoError(t, s.PutSubject(ctx, id))

	got, err := s.Authenticate(ctx, "uuid-1", "key-1")
	require.NoError(t, err)
	assert.Equal(t, "guest", got.Subject)

	_, err = s.Authenticate(ctx, "uuid-1", "wrong")
	assert.True(t, IsAuthenticationFailed(err))

	_, err = s.Authenticate(ctx, "unknown", "key-1")
	assert.True(t, IsAuthenticationFailed(err))

	bySubject, err := s.GetSubject(ctx, "guest")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", bySubject.AuthKey.UUID)
}

func TestMemoryStoreActivations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	act := &entity.TriggerActivation{
		Namespace:    "guest",
		Name:         "t",
		Subject:      "guest",
		ActivationID: "abc123",
		Logs:         []string{"line1", "line2"},
	}
	require.NoError(t, s.PutTriggerActivation(ctx, act))

	got, err := s.GetTriggerActivation(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, []string{"line1", "line2"}, got.Logs)

	// Stored record must not alias the caller's slice header
	act.Logs = append(act.Logs, "line3")
	again, err := s.GetTriggerActivation(ctx, "abc123")
	require.NoError(t, err)
	assert.Len(t, again.Logs, 2)
}
