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

import "time"

// Activation response statuses as stored in trigger activation records.
const (
	ActivationStatusSuccess = "success"
)

// ActivationResponse is the response section of an activation record.
type ActivationResponse struct {
	Status string         `json:"status"`
	Result map[string]any `json:"result,omitempty"`
}

// TriggerActivation is the single document persisted for one trigger fire.
// It is written exactly once after all fan-out outcomes are known and never
// mutated afterwards.
type TriggerActivation struct {
	Namespace    string             `json:"namespace"`
	Name         string             `json:"name"`
	Subject      string             `json:"subject"`
	ActivationID string             `json:"activationId"`
	Start        time.Time          `json:"start"`
	End          time.Time          `json:"end"`
	Response     ActivationResponse `json:"response"`
	Version      string             `json:"version"`
	// Duration is End minus Start in milliseconds.
	Duration int64    `json:"duration,omitempty"`
	Logs     []string `json:"logs"`
}
