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

// Package invoke issues blocking action invocations against the backend and
// classifies the two-shape response into a tagged Outcome.
package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/constants"
	"github.com/serverlessworks/meta-controller/pkg/entity"
	"github.com/serverlessworks/meta-controller/pkg/metrics"
)

// maxErrorBodyBytes caps how much of a failure body is carried into the
// outcome message.
const maxErrorBodyBytes = 4096

// Client invokes actions on the backend. Invocations are not idempotent, so
// the client never retries.
type Client struct {
	hostBase   string
	apiPath    string
	apiVersion string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an activation client for the given backend base URL,
// e.g. "http://localhost:10001" with API path "api" and version "v1".
func NewClient(hostBase, apiPath, apiVersion string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		hostBase:   strings.TrimRight(hostBase, "/"),
		apiPath:    apiPath,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Invoke posts body as a blocking invocation of namespace's action at
// actionPath ("name" or "package/name") using creds for Basic auth. The
// returned Outcome is Success on 200, Pending on 202, Failure otherwise.
// Transport errors become Failure with a zero status code.
func (c *Client) Invoke(ctx context.Context, creds entity.AuthKey, namespace, actionPath string, body map[string]any) Outcome {
	started := time.Now()
	outcome := c.invoke(ctx, creds, namespace, actionPath, body)
	metrics.InvocationsTotal.WithLabelValues(outcome.Kind.String()).Inc()
	metrics.InvocationDurationSeconds.WithLabelValues(outcome.Kind.String()).Observe(time.Since(started).Seconds())
	return outcome
}

func (c *Client) invoke(ctx context.Context, creds entity.AuthKey, namespace, actionPath string, body map[string]any) Outcome {
	if body == nil {
		body = map[string]any{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Failure(0, fmt.Sprintf("failed to encode invocation body: %v", err))
	}

	endpoint := c.actionURL(namespace, actionPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Failure(0, fmt.Sprintf("failed to build invocation request: %v", err))
	}
	req.Header.Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	req.SetBasicAuth(creds.UUID, creds.Key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend invocation transport failure",
			zap.String("action", actionPath), zap.Error(err))
		return Failure(0, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Failure(resp.StatusCode, fmt.Sprintf("failed to read backend response: %v", err))
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			return Failure(resp.StatusCode, "backend returned a non-object activation record")
		}
		return Success(record)

	case http.StatusAccepted:
		var partial struct {
			ActivationID string `json:"activationId"`
		}
		if err := json.Unmarshal(raw, &partial); err != nil || partial.ActivationID == "" {
			return Failure(resp.StatusCode, "backend 202 carried no activation id")
		}
		return Pending(partial.ActivationID)

	default:
		return Failure(resp.StatusCode, failureMessage(raw))
	}
}

// actionURL builds
// <hostBase>/<apiPath>/<apiVersion>/namespaces/<ns>/actions/<actionPath>?blocking=true
// escaping each path segment individually.
func (c *Client) actionURL(namespace, actionPath string) string {
	segments := []string{c.apiPath, c.apiVersion, "namespaces", namespace, "actions"}
	segments = append(segments, strings.Split(actionPath, "/")...)
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.hostBase + "/" + strings.Join(segments, "/") + "?" + constants.BlockingQueryParam + "=true"
}

// failureMessage extracts the error field from a JSON failure body, falling
// back to the raw text.
func failureMessage(raw []byte) string {
	if len(raw) > maxErrorBodyBytes {
		raw = raw[:maxErrorBodyBytes]
	}
	var failure struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &failure); err == nil && failure.Error != "" {
		return failure.Error
	}
	return strings.TrimSpace(string(raw))
}
