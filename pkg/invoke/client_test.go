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

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/entity"
)

var testCreds = entity.AuthKey{UUID: "sys-uuid", Key: "sys-key"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "api", "v1", 5*time.Second, zap.NewNop())
}

func TestInvokeSuccess(t *testing.T) {
	var gotPath, gotQuery, gotUser, gotPass string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"activationId": "abc",
			"response":     map[string]any{"result": map[string]any{"ok": true}},
		})
	})

	outcome := client.Invoke(context.Background(), testCreds, "whisk.system",
		"routemgmt/getApi", map[string]any{"x": "X"})

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "abc", outcome.Record["activationId"])
	assert.Equal(t, "/api/v1/namespaces/whisk.system/actions/routemgmt/getApi", gotPath)
	assert.Equal(t, "blocking=true", gotQuery)
	assert.Equal(t, "sys-uuid", gotUser)
	assert.Equal(t, "sys-key", gotPass)
	assert.Equal(t, "X", gotBody["x"])
}

func TestInvokePending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{"activationId": "AID"})
	})

	outcome := client.Invoke(context.Background(), testCreds, "whisk.system", "a", nil)

	require.Equal(t, OutcomePending, outcome.Kind)
	assert.Equal(t, "AID", outcome.ActivationID)
}

func TestInvokePendingWithoutID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{}`))
	})

	outcome := client.Invoke(context.Background(), testCreds, "whisk.system", "a", nil)
	assert.Equal(t, OutcomeFailure, outcome.Kind)
}

func TestInvokeFailureJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"error": "invoker down"})
	})

	outcome := client.Invoke(context.Background(), testCreds, "whisk.system", "a", nil)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, http.StatusBadGateway, outcome.StatusCode)
	assert.Equal(t, "invoker down", outcome.Message)
}

func TestInvokeFailureRawText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such action\n"))
	})

	outcome := client.Invoke(context.Background(), testCreds, "whisk.system", "a", nil)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, http.StatusNotFound, outcome.StatusCode)
	assert.Equal(t, "no such action", outcome.Message)
}

func TestInvokeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, "api", "v1", time.Second, zap.NewNop())

	outcome := client.Invoke(context.Background(), testCreds, "whisk.system", "a", nil)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Zero(t, outcome.StatusCode)
	assert.NotEmpty(t, outcome.Message)
}

func TestInvokeNonObjectRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"just a string"`))
	})

	outcome := client.Invoke(context.Background(), testCreds, "whisk.system", "a", nil)
	assert.Equal(t, OutcomeFailure, outcome.Kind)
}

func TestDeriveCode(t *testing.T) {
	code := DeriveCode("AID")
	assert.Equal(t, code, DeriveCode("AID"), "code derivation must be deterministic")
	assert.NotEqual(t, code, DeriveCode("BID"))
	assert.GreaterOrEqual(t, code, int64(0))
	assert.Less(t, code, int64(1)<<53, "code must fit a JSON number exactly")
}
