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

package trigger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/entity"
	"github.com/serverlessworks/meta-controller/pkg/metrics"
	"github.com/serverlessworks/meta-controller/pkg/store"
)

// activationLogTimestamp is the log line timestamp layout,
// yyyy-MM-dd'T'HH:mm:ss.SSS'Z' in UTC.
const activationLogTimestamp = "2006-01-02T15:04:05.000Z"

// Log line levels.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// NewActivationID generates a fresh activation id token.
func NewActivationID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// FormatLogLine renders one activation log line:
// [<timestamp>] [<LEVEL>] [<triggerName>] [<ruleName>] [<actionName>] <message>
func FormatLogLine(ts time.Time, level, triggerName, ruleName, actionName, message string) string {
	return fmt.Sprintf("[%s] [%s] [%s] [%s] [%s] %s",
		ts.UTC().Format(activationLogTimestamp), level, triggerName, ruleName, actionName, message)
}

// ActivationWriter persists trigger activation records. Exactly one put per
// fired trigger; a failed put is logged and never retried because the
// activation id has already been reported to the caller.
type ActivationWriter struct {
	activations store.ActivationStore
	logger      *zap.Logger
	putTimeout  time.Duration
}

// NewActivationWriter creates a writer over the given activation store.
func NewActivationWriter(activations store.ActivationStore, logger *zap.Logger) *ActivationWriter {
	return &ActivationWriter{
		activations: activations,
		logger:      logger,
		putTimeout:  30 * time.Second,
	}
}

// Write stores the activation record.
func (w *ActivationWriter) Write(ctx context.Context, activation *entity.TriggerActivation) {
	ctx, cancel := context.WithTimeout(ctx, w.putTimeout)
	defer cancel()

	if err := w.activations.PutTriggerActivation(ctx, activation); err != nil {
		metrics.ActivationWritesTotal.WithLabelValues("error").Inc()
		w.logger.Error("failed to persist trigger activation",
			zap.String("activation_id", activation.ActivationID),
			zap.String("trigger", activation.Namespace+"/"+activation.Name),
			zap.Error(err))
		return
	}
	metrics.ActivationWritesTotal.WithLabelValues("ok").Inc()
}
