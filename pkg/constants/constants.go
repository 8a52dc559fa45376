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

// Package constants holds shared wire-level constants.
package constants

const (
	// System-injected payload fields. These are stamped over any
	// caller-supplied value with the same key, always last in the merge.
	MetaVerbKey      = "__ow_meta_verb"
	MetaPathKey      = "__ow_meta_path"
	MetaNamespaceKey = "__ow_meta_namespace"

	// Headers
	ContentTypeHeader   = "Content-Type"
	CorrelationIDHeader = "X-Correlation-ID"

	// Content types
	ContentTypeJSON = "application/json"

	// Backend invocation
	BlockingQueryParam = "blocking"

	// Activation response field carrying the id on a 202
	ActivationIDField = "activationId"
)
