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

// Package meta resolves meta API requests to system-namespace actions and
// builds the merged payload posted to the backend.
package meta

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/entity"
	"github.com/serverlessworks/meta-controller/pkg/metrics"
	"github.com/serverlessworks/meta-controller/pkg/store"
)

// metaAnnotation opts a package into meta routing when boolean true.
const metaAnnotation = "meta"

// Verbs that may carry an action-name annotation on a meta package.
var allowedVerbs = map[string]bool{"get": true, "post": true, "delete": true}

// ResolvedAction is the outcome of package resolution: the package, the
// local action name mapped to the verb, and the package defaults feeding
// the parameter merge.
type ResolvedAction struct {
	Package           *entity.Package
	ActionName        string
	PackageParameters entity.Parameters
}

// ActionPath returns the backend invocation path, package-local to the
// system namespace.
func (r *ResolvedAction) ActionPath() string {
	return r.Package.Name + "/" + r.ActionName
}

// Resolver loads meta packages from the entity store and validates their
// routing annotations.
type Resolver struct {
	entities        store.EntityStore
	systemNamespace string
}

// NewResolver creates a resolver rooted at the system namespace.
func NewResolver(entities store.EntityStore, systemNamespace string) *Resolver {
	return &Resolver{entities: entities, systemNamespace: systemNamespace}
}

// Resolve maps (metaPackage, verb) to the action annotated for the verb.
// A missing or non-meta package yields KindNotMeta, an unmapped verb
// KindVerbNotMapped, and an empty package name KindNotFound. Serving a
// public package emits one WARN line.
func (r *Resolver) Resolve(ctx context.Context, log *zap.Logger, metaPackage, verb string) (*ResolvedAction, error) {
	if metaPackage == "" {
		return nil, notFound("no meta package in request path")
	}

	docID := r.systemNamespace + "/" + metaPackage
	pkg, err := r.entities.GetPackage(ctx, docID)
	if err != nil {
		if store.IsNoDocument(err) {
			return nil, notMeta("package %q does not exist", docID)
		}
		return nil, internal("failed to load package %q: %v", docID, err)
	}

	if isMeta, ok := pkg.Annotations.Bool(metaAnnotation); !ok || !isMeta {
		return nil, notMeta("package %q is not a meta package", docID)
	}

	verb = strings.ToLower(verb)
	if !allowedVerbs[verb] {
		return nil, verbNotMapped("verb %q is not routable", verb)
	}
	actionName, ok := pkg.Annotations.String(verb)
	if !ok || actionName == "" {
		return nil, verbNotMapped("package %q maps no action for verb %q", docID, verb)
	}

	if pkg.Publish {
		log.Warn("meta package is public", zap.String("package", pkg.FQN().String()))
		metrics.PublicPackageRequestsTotal.WithLabelValues(pkg.Name).Inc()
	}

	return &ResolvedAction{
		Package:           pkg,
		ActionName:        actionName,
		PackageParameters: pkg.Parameters,
	}, nil
}

// ActionParameters loads the default parameters of the resolved action.
// The package annotation naming a nonexistent action is a server-side
// misconfiguration, KindActionMissing.
func (r *Resolver) ActionParameters(ctx context.Context, resolved *ResolvedAction) (entity.Parameters, error) {
	docID := r.systemNamespace + "/" + resolved.ActionPath()
	action, err := r.entities.GetAction(ctx, docID)
	if err != nil {
		if store.IsNoDocument(err) {
			return nil, actionMissing("action %q referenced by package annotation does not exist", docID)
		}
		return nil, internal("failed to load action %q: %v", docID, err)
	}
	return action.Parameters, nil
}
