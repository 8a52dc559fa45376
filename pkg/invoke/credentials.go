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
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/entity"
	"github.com/serverlessworks/meta-controller/pkg/store"
)

// CredentialSource resolves the privileged system identity's credentials
// once and caches them for the process lifetime. A failed first lookup is
// not cached; subsequent calls retry.
type CredentialSource struct {
	subject string
	auth    store.AuthStore
	logger  *zap.Logger

	mu     sync.RWMutex
	cached *entity.AuthKey
}

// NewCredentialSource creates a credential source for the given system
// subject.
func NewCredentialSource(subject string, auth store.AuthStore, logger *zap.Logger) *CredentialSource {
	return &CredentialSource{
		subject: subject,
		auth:    auth,
		logger:  logger,
	}
}

// Get returns the cached system credentials, looking them up on first use.
func (s *CredentialSource) Get(ctx context.Context) (entity.AuthKey, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}

	id, err := s.auth.GetSubject(ctx, s.subject)
	if err != nil {
		return entity.AuthKey{}, fmt.Errorf("failed to resolve system identity %q: %w", s.subject, err)
	}

	s.logger.Info("Resolved system identity credentials", zap.String("subject", s.subject))
	key := id.AuthKey
	s.cached = &key
	return key, nil
}
