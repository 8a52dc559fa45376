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

// Package handlers wires the meta routing and trigger fire endpoints into
// gin. The meta surface maps URLs of the form
// /<apipath>/<version>/<prefix>/<metaPackage>[<residual>] to blocking
// invocations of system-namespace actions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/api/middleware"
	"github.com/serverlessworks/meta-controller/pkg/config"
	"github.com/serverlessworks/meta-controller/pkg/invoke"
	"github.com/serverlessworks/meta-controller/pkg/meta"
	"github.com/serverlessworks/meta-controller/pkg/store"
	"github.com/serverlessworks/meta-controller/pkg/trigger"
)

// APIServer holds the request-path dependencies.
type APIServer struct {
	cfg      *config.Config
	store    store.Store
	resolver *meta.Resolver
	client   *invoke.Client
	creds    *invoke.CredentialSource
	triggers *trigger.Service
	logger   *zap.Logger
}

// NewAPIServer creates a new API server with dependencies
func NewAPIServer(
	cfg *config.Config,
	st store.Store,
	client *invoke.Client,
	triggers *trigger.Service,
	logger *zap.Logger,
) *APIServer {
	systemNS := cfg.Controller.System.Namespace
	return &APIServer{
		cfg:      cfg,
		store:    st,
		resolver: meta.NewResolver(st, systemNS),
		client:   client,
		creds:    invoke.NewCredentialSource(systemNS, st, logger),
		triggers: triggers,
		logger:   logger,
	}
}

// NewRouter assembles the gin engine with the standard middleware chain
// and all routes registered.
func NewRouter(s *APIServer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.CorrelationIDMiddleware(logger))
	router.Use(middleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(gin.Recovery())

	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes attaches all HTTP routes to the router. Authenticated
// routes sit under /<apipath>/<version>.
func (s *APIServer) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", s.handleHealth)

	api := router.Group("/" + s.cfg.Controller.API.Path + "/" + s.cfg.Controller.API.Version)
	api.Use(middleware.BasicAuthMiddleware(s.store, s.logger))

	api.POST("/triggers/:triggerName/fire", s.handleTriggerFire)

	// The bare prefix and the trailing-slash form both resolve no package;
	// the wildcard route reports 404 for the latter itself.
	metaGroup := api.Group("/" + s.cfg.Controller.API.MetaPrefix)
	metaGroup.Any("", s.handleMetaRoot)
	metaGroup.Any("/*metaPath", s.handleMeta)
}

// handleHealth reports liveness.
func (s *APIServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleMetaRoot answers requests with no segment after the meta prefix.
func (s *APIServer) handleMetaRoot(c *gin.Context) {
	c.Status(http.StatusNotFound)
}
