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

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/api/middleware"
	"github.com/serverlessworks/meta-controller/pkg/constants"
	"github.com/serverlessworks/meta-controller/pkg/meta"
	"github.com/serverlessworks/meta-controller/pkg/metrics"
)

// maxMetaBodyBytes caps the request body read for meta invocations.
const maxMetaBodyBytes = 1 << 20

// handleMeta serves <VERB> /<apipath>/<version>/<prefix>/<metaPackage>[<residual>].
// Resolution: package lookup, verb annotation, parameter merge, blocking
// invocation, outcome translation.
func (s *APIServer) handleMeta(c *gin.Context) {
	log := middleware.GetLogger(c, s.logger)
	verb := c.Request.Method
	start := time.Now()

	metaPackage, residual, ok := s.splitMetaPath(c.Request.URL.EscapedPath())
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	defer func() {
		status := strconv.Itoa(c.Writer.Status())
		metrics.MetaRequestsTotal.WithLabelValues(metaPackage, verb, status).Inc()
		metrics.MetaRequestDurationSeconds.WithLabelValues(metaPackage, verb).Observe(time.Since(start).Seconds())
	}()

	switch verb {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	resolved, err := s.resolver.Resolve(ctx, log, metaPackage, verb)
	if err != nil {
		s.writeResolutionError(c, log, err)
		return
	}
	actionParams, err := s.resolver.ActionParameters(ctx, resolved)
	if err != nil {
		s.writeResolutionError(c, log, err)
		return
	}

	// Body constraints are checked only once resolution has succeeded, so a
	// non-meta package or unmapped verb answers 405 whatever the body holds.
	body, err := readJSONObjectBody(c)
	if err != nil {
		s.writeResolutionError(c, log, err)
		return
	}

	payload := meta.MergePayload(meta.MergeInput{
		PackageParameters: resolved.PackageParameters,
		ActionParameters:  actionParams,
		Query:             c.Request.URL.Query(),
		Body:              body,
		Verb:              verb,
		ResidualPath:      residual,
		CallerNamespace:   identity.Namespace,
	})

	systemKey, err := s.creds.Get(ctx)
	if err != nil {
		log.Error("system credentials unavailable", zap.Error(err))
		s.writeInternalError(c, "internal server error")
		return
	}

	outcome := s.client.Invoke(ctx, systemKey, s.cfg.Controller.System.Namespace, resolved.ActionPath(), payload)
	s.writeOutcome(c, outcome)
}

// splitMetaPath carves the meta package name and the residual path out of
// the raw escaped request path. The residual keeps its percent-encoding
// verbatim; only the package segment is decoded for the store lookup.
func (s *APIServer) splitMetaPath(escapedPath string) (metaPackage, residual string, ok bool) {
	prefix := "/" + s.cfg.Controller.API.Path + "/" + s.cfg.Controller.API.Version +
		"/" + s.cfg.Controller.API.MetaPrefix
	remainder := strings.TrimPrefix(escapedPath, prefix)
	if remainder == escapedPath {
		return "", "", false
	}
	remainder = strings.TrimPrefix(remainder, "/")
	if remainder == "" {
		return "", "", false
	}

	segment := remainder
	if idx := strings.Index(remainder, "/"); idx >= 0 {
		segment = remainder[:idx]
		residual = remainder[idx:]
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil || decoded == "" {
		return "", "", false
	}
	return decoded, residual, true
}

// readJSONObjectBody reads an optional application/json object body. A
// non-JSON content type with a body, or a JSON body that is not an object,
// is an unsupported media error. An absent or empty body is fine.
func readJSONObjectBody(c *gin.Context) (map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMetaBodyBytes))
	if err != nil {
		return nil, meta.UnsupportedMedia()
	}
	if len(raw) == 0 {
		return nil, nil
	}

	if ct := c.ContentType(); ct != "" && ct != constants.ContentTypeJSON {
		return nil, meta.UnsupportedMedia()
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, meta.UnsupportedMedia()
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, meta.UnsupportedMedia()
	}
	return object, nil
}
