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

import "errors"

// Common storage errors - implementation agnostic
var (
	// ErrNoDocument is returned when a document is not found
	ErrNoDocument = errors.New("no document")

	// ErrAuthenticationFailed is returned when Basic credentials match no
	// auth record
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrDocumentTypeMismatch is returned when a document exists but is not
	// of the requested kind
	ErrDocumentTypeMismatch = errors.New("document type mismatch")
)

// IsNoDocument checks if an error is a missing-document error.
// Any other storage failure is a backend error from the caller's point of
// view and maps to an internal error at the HTTP layer.
func IsNoDocument(err error) bool {
	return errors.Is(err, ErrNoDocument)
}

// IsAuthenticationFailed checks if an error is a failed credential lookup.
func IsAuthenticationFailed(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}
