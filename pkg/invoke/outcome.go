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

import "hash/fnv"

// OutcomeKind tags the three activation outcomes of a blocking invocation.
type OutcomeKind int

const (
	// OutcomeSuccess carries the completed activation record (backend 200)
	OutcomeSuccess OutcomeKind = iota
	// OutcomePending carries an activation id for later retrieval
	// (backend 202, the blocking timeout elapsed)
	OutcomePending
	// OutcomeFailure carries a status code and short message
	OutcomeFailure
)

// String returns the outcome kind label used in logs and metrics.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomePending:
		return "pending"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one backend invocation. Exactly the
// fields implied by Kind are populated.
type Outcome struct {
	Kind OutcomeKind

	// Record is the activation record object (Success).
	Record map[string]any

	// ActivationID identifies the still-running activation (Pending).
	ActivationID string

	// StatusCode and Message describe the failure (Failure). StatusCode is
	// zero for transport errors.
	StatusCode int
	Message    string
}

// Success wraps a completed activation record.
func Success(record map[string]any) Outcome {
	return Outcome{Kind: OutcomeSuccess, Record: record}
}

// Pending wraps an activation id returned on a backend 202.
func Pending(activationID string) Outcome {
	return Outcome{Kind: OutcomePending, ActivationID: activationID}
}

// Failure wraps a failed invocation.
func Failure(statusCode int, message string) Outcome {
	return Outcome{Kind: OutcomeFailure, StatusCode: statusCode, Message: message}
}

// DeriveCode maps an activation id token to the numeric code clients echo
// back in 202/500 bodies. The code is opaque; it is masked to 53 bits so it
// survives a JSON number round trip unchanged.
func DeriveCode(activationID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(activationID))
	return int64(h.Sum64() & ((1 << 53) - 1))
}
