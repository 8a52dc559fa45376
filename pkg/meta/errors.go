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

import "fmt"

// ErrorKind classifies resolution failures. The HTTP layer maps each kind
// to a status code.
type ErrorKind int

const (
	// KindNotFound: no package segment after the meta prefix (404)
	KindNotFound ErrorKind = iota
	// KindNotMeta: package missing, wrong type, or lacking meta=true (405)
	KindNotMeta
	// KindVerbNotMapped: meta package has no annotation for this verb (405)
	KindVerbNotMapped
	// KindUnsupportedMedia: request body is not a JSON object (415)
	KindUnsupportedMedia
	// KindActionMissing: resolved action has no document in the store (500)
	KindActionMissing
	// KindInternal: any other backend failure during resolution (500)
	KindInternal
)

// ResolutionError is a typed resolution failure.
type ResolutionError struct {
	Kind    ErrorKind
	Message string
}

func (e *ResolutionError) Error() string {
	return e.Message
}

func notFound(msg string, args ...any) *ResolutionError {
	return &ResolutionError{Kind: KindNotFound, Message: fmt.Sprintf(msg, args...)}
}

func notMeta(msg string, args ...any) *ResolutionError {
	return &ResolutionError{Kind: KindNotMeta, Message: fmt.Sprintf(msg, args...)}
}

func verbNotMapped(msg string, args ...any) *ResolutionError {
	return &ResolutionError{Kind: KindVerbNotMapped, Message: fmt.Sprintf(msg, args...)}
}

func actionMissing(msg string, args ...any) *ResolutionError {
	return &ResolutionError{Kind: KindActionMissing, Message: fmt.Sprintf(msg, args...)}
}

func internal(msg string, args ...any) *ResolutionError {
	return &ResolutionError{Kind: KindInternal, Message: fmt.Sprintf(msg, args...)}
}

// UnsupportedMedia is returned when a request body is present but is not a
// JSON object.
func UnsupportedMedia() *ResolutionError {
	return &ResolutionError{
		Kind:    KindUnsupportedMedia,
		Message: "request body must be a JSON object (application/json)",
	}
}
