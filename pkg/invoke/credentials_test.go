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

package invoke

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

// countingAuthStore fails the first failures lookups, then succeeds.
type countingAuthStore struct {
	calls    atomic.Int32
	failures int32
}

func (s *countingAuthStore) GetSubject(_ context.Context, subject string) (*entity.Identity, error) {
	n := s.calls.Add(1)
	if n <= s.failures {
		return nil, errors.New("store unavailable")
	}
	return &entity.Identity{
		Subject:   subject,
		Namespace: subject,
		AuthKey:   entity.AuthKey{UUID: "u", Key: "k"},
	}, nil
}

func (s *countingAuthStore) Authenticate(context.Context, string, string) (*entity.Identity, error) {
	return nil, errors.New("not implemented")
}

func TestCredentialSourceCachesSuccess(t *testing.T) {
	auth := &countingAuthStore{}
	src := NewCredentialSource("whisk.system", auth, zap.NewNop())

	key, err := src.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u", key.UUID)

	_, err = src.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), auth.calls.Load(), "successful lookup must be cached")
}

func TestCredentialSourceRetriesAfterFailure(t *testing.T) {
	auth := &countingAuthStore{failures: 1}
	src := NewCredentialSource("whisk.system", auth, zap.NewNop())

	_, err := src.Get(context.Background())
	require.Error(t, err)

	key, err := src.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "k", key.Key)
	assert.Equal(t, int32(2), auth.calls.Load())
}
