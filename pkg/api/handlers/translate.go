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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/api/middleware"
	"github.com/serverlessworks/meta-controller/pkg/invoke"
	"github.com/serverlessworks/meta-controller/pkg/meta"
)

// writeOutcome translates an invocation outcome into the HTTP response.
// The numeric code echoed in 202 and 500 bodies is opaque to clients.
func (s *APIServer) writeOutcome(c *gin.Context, outcome invoke.Outcome) {
	switch outcome.Kind {
	case invoke.OutcomeSuccess:
		c.JSON(http.StatusOK, outcome.Record)
	case invoke.OutcomePending:
		c.JSON(http.StatusAccepted, gin.H{"code": invoke.DeriveCode(outcome.ActivationID)})
	default:
		message := outcome.Message
		if message == "" {
			message = "application error"
		}
		s.writeInternalError(c, message)
	}
}

// writeResolutionError maps resolution failure kinds to status codes:
// NotFound 404, NotMeta and VerbNotMapped 405 with empty bodies,
// UnsupportedMedia 415 with a text body, everything else 500.
func (s *APIServer) writeResolutionError(c *gin.Context, log *zap.Logger, err error) {
	var resErr *meta.ResolutionError
	if !errors.As(err, &resErr) {
		log.Error("unclassified resolution failure", zap.Error(err))
		s.writeInternalError(c, "internal server error")
		return
	}

	switch resErr.Kind {
	case meta.KindNotFound:
		c.Status(http.StatusNotFound)
	case meta.KindNotMeta, meta.KindVerbNotMapped:
		c.Status(http.StatusMethodNotAllowed)
	case meta.KindUnsupportedMedia:
		c.String(http.StatusUnsupportedMediaType, resErr.Message)
	case meta.KindActionMissing:
		log.Error("meta annotation names a missing action", zap.String("cause", resErr.Message))
		s.writeInternalError(c, resErr.Message)
	default:
		log.Error("resolution failed", zap.String("cause", resErr.Message))
		s.writeInternalError(c, "internal server error")
	}
}

// writeInternalError emits the 500 body. The code derives from the
// transaction id so support can correlate the response with the logs.
func (s *APIServer) writeInternalError(c *gin.Context, message string) {
	code := invoke.DeriveCode(middleware.GetCorrelationID(c))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "code": code})
}
