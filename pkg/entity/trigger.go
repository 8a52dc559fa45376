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

import "sort"

// Rule statuses. Only ACTIVE rules participate in trigger fan-out.
const (
	RuleStatusActive   = "ACTIVE"
	RuleStatusInactive = "INACTIVE"
)

// RuleRef is a rule as embedded in a trigger document: the action it maps to
// and whether the rule is currently active.
type RuleRef struct {
	Action FullyQualifiedName `json:"action"`
	Status string             `json:"status"`
}

// Trigger is a stored trigger document.
type Trigger struct {
	Namespace   string             `json:"namespace"`
	Name        string             `json:"name"`
	Parameters  Parameters         `json:"parameters,omitempty"`
	Annotations Annotations        `json:"annotations,omitempty"`
	Rules       map[string]RuleRef `json:"rules,omitempty"`
}

// FQN returns the trigger's fully qualified name.
func (t *Trigger) FQN() FullyQualifiedName {
	return FullyQualifiedName{Namespace: t.Namespace, Name: t.Name}
}

// NamedRule pairs a rule name with its reference for ordered iteration.
type NamedRule struct {
	Name string
	Rule RuleRef
}

// ActiveRules returns the ACTIVE rules sorted by rule name. The order is the
// declaration order used for fan-out log collection, so it must be stable.
func (t *Trigger) ActiveRules() []NamedRule {
	rules := make([]NamedRule, 0, len(t.Rules))
	for name, ref := range t.Rules {
		if ref.Status == RuleStatusActive {
			rules = append(rules, NamedRule{Name: name, Rule: ref})
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules
}
