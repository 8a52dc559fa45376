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

// Package trigger implements trigger fire fan-out: every active rule's
// action is invoked concurrently with the caller's credentials, per-rule
// outcomes become formatted log lines, and a single activation record is
// persisted once all outcomes are known.
package trigger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/serverlessworks/meta-controller/pkg/constants"
	"github.com/serverlessworks/meta-controller/pkg/entity"
	"github.com/serverlessworks/meta-controller/pkg/invoke"
	"github.com/serverlessworks/meta-controller/pkg/metrics"
)

// activationVersion is the semver stamped on trigger activation records.
const activationVersion = "0.0.1"

// Service fires triggers. Fire returns an activation id immediately; the
// fan-out and the record write continue on background goroutines tracked
// for shutdown draining.
type Service struct {
	client *invoke.Client
	writer *ActivationWriter
	logger *zap.Logger
	group  errgroup.Group
}

// NewService creates a fan-out service over the given invocation client and
// activation writer.
func NewService(client *invoke.Client, writer *ActivationWriter, logger *zap.Logger) *Service {
	return &Service{client: client, writer: writer, logger: logger}
}

// ruleResult is one rule's classified outcome, stamped when the invocation
// finished.
type ruleResult struct {
	level   string
	message string
	at      time.Time
}

// Fire generates the activation id, kicks off the fan-out in the background
// and returns the id to be reported to the caller. The persisted record
// carries exactly this id regardless of how the fan-out goes.
func (s *Service) Fire(log *zap.Logger, caller entity.Identity, trig *entity.Trigger, payload map[string]any) string {
	activationID := NewActivationID()
	start := time.Now().UTC()
	metrics.TriggerFiresTotal.WithLabelValues(trig.Namespace).Inc()

	snapshot := *trig
	log.Info("firing trigger",
		zap.String("trigger", snapshot.FQN().String()),
		zap.String("activation_id", activationID),
		zap.Int("active_rules", len(snapshot.ActiveRules())))

	s.group.Go(func() error {
		s.run(log, caller, &snapshot, payload, activationID, start)
		return nil
	})
	return activationID
}

// Drain blocks until all in-flight fan-outs have persisted their records.
func (s *Service) Drain() {
	s.group.Wait()
}

func (s *Service) run(log *zap.Logger, caller entity.Identity, trig *entity.Trigger, payload map[string]any, activationID string, start time.Time) {
	ctx := context.Background()
	rules := trig.ActiveRules()

	// One merged body for every rule: trigger defaults, payload overrides.
	body := trig.Parameters.Map()
	for key, value := range payload {
		body[key] = value
	}

	results := make([]ruleResult, len(rules))
	var wg sync.WaitGroup
	for i, rule := range rules {
		wg.Add(1)
		go func(i int, rule entity.NamedRule) {
			defer wg.Done()
			results[i] = s.invokeRule(ctx, caller, rule, body)
		}(i, rule)
	}
	wg.Wait()
	metrics.FanoutDurationSeconds.Observe(time.Since(start).Seconds())

	// Log lines in rule order, not completion order.
	logs := make([]string, 0, len(results))
	for i, res := range results {
		rule := rules[i]
		logs = append(logs, FormatLogLine(res.at, res.level, trig.Name, rule.Name, rule.Rule.Action.String(), res.message))
	}

	end := time.Now().UTC()
	activation := &entity.TriggerActivation{
		Namespace:    trig.Namespace,
		Name:         trig.Name,
		Subject:      caller.Subject,
		ActivationID: activationID,
		Start:        start,
		End:          end,
		Response:     entity.ActivationResponse{Status: entity.ActivationStatusSuccess},
		Version:      activationVersion,
		Duration:     end.Sub(start).Milliseconds(),
		Logs:         logs,
	}
	s.writer.Write(ctx, activation)

	log.Debug("trigger fan-out complete",
		zap.String("trigger", trig.FQN().String()),
		zap.String("activation_id", activationID),
		zap.Int("rules", len(rules)))
}

// invokeRule posts the merged body to the rule's action with the caller's
// credentials and classifies the outcome into a log level and message.
func (s *Service) invokeRule(ctx context.Context, caller entity.Identity, rule entity.NamedRule, body map[string]any) ruleResult {
	action := rule.Rule.Action
	path := action.Name
	if action.Package != "" {
		path = action.Package + "/" + action.Name
	}

	outcome := s.client.Invoke(ctx, caller.AuthKey, action.Namespace, path, body)
	metrics.FanoutRuleOutcomesTotal.WithLabelValues(outcome.Kind.String()).Inc()
	at := time.Now().UTC()

	switch outcome.Kind {
	case invoke.OutcomeSuccess:
		id, _ := outcome.Record[constants.ActivationIDField].(string)
		return ruleResult{level: LevelInfo, at: at,
			message: fmt.Sprintf("invoked %s with activation %s", action.String(), id)}
	case invoke.OutcomePending:
		return ruleResult{level: LevelInfo, at: at,
			message: fmt.Sprintf("invoked %s with activation %s", action.String(), outcome.ActivationID)}
	default:
		if outcome.StatusCode == 404 {
			return ruleResult{level: LevelError, at: at, message: "action not found"}
		}
		return ruleResult{level: LevelError, at: at,
			message: fmt.Sprintf("failed to invoke %s: %s", action.String(), outcome.Message)}
	}
}
