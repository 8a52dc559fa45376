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

import (
	"net/url"
	"strings"

	"github.com/serverlessworks/meta-controller/pkg/constants"
	"github.com/serverlessworks/meta-controller/pkg/entity"
)

// MergeInput collects the five payload sources in merge order.
type MergeInput struct {
	// PackageParameters are the meta package's defaults.
	PackageParameters entity.Parameters
	// ActionParameters are the resolved action's defaults.
	ActionParameters entity.Parameters
	// Query carries the caller's query string, flattened to strings.
	Query url.Values
	// Body is the caller's JSON object body, nil when absent.
	Body map[string]any
	// Verb is the HTTP method as received.
	Verb string
	// ResidualPath is the raw path after the meta package segment,
	// percent-encoding preserved verbatim.
	ResidualPath string
	// CallerNamespace is the authenticated caller's namespace.
	CallerNamespace string
}

// MergePayload folds the sources left to right, later sources overriding
// keys, with the system-injected meta fields stamped last so they always
// win. The same input always yields an identical payload.
func MergePayload(in MergeInput) map[string]any {
	payload := make(map[string]any)

	for _, kv := range in.PackageParameters {
		payload[kv.Key] = kv.Value
	}
	for _, kv := range in.ActionParameters {
		payload[kv.Key] = kv.Value
	}
	for key, values := range in.Query {
		if len(values) > 0 {
			payload[key] = values[len(values)-1]
		}
	}
	for key, value := range in.Body {
		payload[key] = value
	}

	payload[constants.MetaVerbKey] = strings.ToLower(in.Verb)
	payload[constants.MetaPathKey] = in.ResidualPath
	payload[constants.MetaNamespaceKey] = in.CallerNamespace

	return payload
}
