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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/api/middleware"
	"github.com/serverlessworks/meta-controller/pkg/constants"
	"github.com/serverlessworks/meta-controller/pkg/store"
)

// handleTriggerFire serves POST /<apipath>/<version>/triggers/:triggerName/fire.
// The activation id is returned immediately; rule fan-out and the activation
// record write continue in the background.
func (s *APIServer) handleTriggerFire(c *gin.Context) {
	log := middleware.GetLogger(c, s.logger)

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payload, err := readJSONObjectBody(c)
	if err != nil {
		s.writeResolutionError(c, log, err)
		return
	}

	name := c.Param("triggerName")
	docID := identity.Namespace + "/" + name
	trig, err := s.store.GetTrigger(c.Request.Context(), docID)
	if err != nil {
		if store.IsNoDocument(err) {
			c.Status(http.StatusNotFound)
			return
		}
		log.Error("failed to load trigger", zap.String("trigger", docID), zap.Error(err))
		s.writeInternalError(c, "internal server error")
		return
	}

	activationID := s.triggers.Fire(log, *identity, trig, payload)
	c.JSON(http.StatusAccepted, gin.H{constants.ActivationIDField: activationID})
}
