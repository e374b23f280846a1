package schema

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ChangePublisher fans schema change notifications out to external systems
// (websocket hubs, message buses, webhook dispatchers).
type ChangePublisher interface {
	Notify(ctx context.Context, actorID uuid.UUID, metadata map[string]any)
}

// Listener receives registry snapshots whenever schemas change.
type Listener func(context.Context, Snapshot)

// Snapshot captures a moment-in-time export of the registered schemas.
type Snapshot struct {
	GeneratedAt   time.Time
	ResourceNames []string
	Document      map[string]any
}

// formsExtensionKey is where the aggregated document carries the activity
// payload form descriptors, next to the OpenAPI content.
const formsExtensionKey = "x-activity-forms"

// Registry aggregates two schema sources for hatchery admin hosts: go-crud
// controller metadata (farms, activity, staff, preferences, catalogs) and the
// activity payload form descriptors. Both are served from one endpoint so
// form renderers and dashboards fetch a single document, and every change is
// pushed to subscribed listeners and the optional publisher.
type Registry struct {
	mu sync.RWMutex

	providers map[string]router.MetadataProvider
	forms     []PayloadForm
	listeners []Listener
	publisher ChangePublisher

	info             router.OpenAPIInfo
	tags             []string
	relationProvider router.RelationMetadataProvider
	uiOptions        router.UISchemaOptions
	hasUIOptions     bool
}

// Option customizes registry behaviour.
type Option func(*Registry)

// NewRegistry constructs a registry with optional configuration.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		providers: make(map[string]router.MetadataProvider),
		info: router.OpenAPIInfo{
			Title:   "Hatchery Admin Schemas",
			Version: "1.0.0",
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(reg)
		}
	}
	return reg
}

// WithInfo overrides the default OpenAPI info metadata.
func WithInfo(info router.OpenAPIInfo) Option {
	return func(r *Registry) {
		if info.Title != "" {
			r.info = info
		}
		if info.Version != "" {
			r.info.Version = info.Version
		}
		if info.Description != "" {
			r.info.Description = info.Description
		}
	}
}

// WithTags sets global tags applied to every generated OpenAPI document.
func WithTags(tags ...string) Option {
	return func(r *Registry) {
		if len(tags) == 0 {
			return
		}
		r.tags = append([]string(nil), tags...)
	}
}

// WithRelationProvider configures a custom relation metadata provider for the
// generated documents.
func WithRelationProvider(provider router.RelationMetadataProvider) Option {
	return func(r *Registry) {
		if provider != nil {
			r.relationProvider = provider
		}
	}
}

// WithUISchemaOptions applies UI-specific schema enrichment callbacks.
func WithUISchemaOptions(opts router.UISchemaOptions) Option {
	return func(r *Registry) {
		r.uiOptions = opts
		r.hasUIOptions = true
	}
}

// WithPublisher wires a publisher used to notify listeners outside the
// process whenever schemas change.
func WithPublisher(publisher ChangePublisher) Option {
	return func(r *Registry) {
		r.publisher = publisher
	}
}

// WithPayloadForms embeds activity payload form descriptors in the served
// document. Called without arguments it uses the canonical forms for every
// activity variant.
func WithPayloadForms(forms ...PayloadForm) Option {
	return func(r *Registry) {
		if len(forms) == 0 {
			forms = PayloadForms()
		}
		r.forms = forms
	}
}

// Register adds a metadata provider to the registry. Subsequent registrations
// with the same resource name replace the previous entry. The metadata is
// read once at registration so later provider mutations cannot skew the
// served document.
func (r *Registry) Register(provider router.MetadataProvider) {
	if provider == nil {
		return
	}
	metadata := provider.GetMetadata()
	if metadata.Name == "" {
		return
	}

	r.mu.Lock()
	r.providers[metadata.Name] = frozenMetadata{metadata: metadata}
	state := r.compileStateLocked()
	listeners := append([]Listener(nil), r.listeners...)
	publisher := r.publisher
	r.mu.Unlock()

	r.dispatch(context.Background(), state, listeners, publisher)
}

// RegisterAll is a convenience helper that registers multiple providers.
func (r *Registry) RegisterAll(providers ...router.MetadataProvider) {
	for _, provider := range providers {
		r.Register(provider)
	}
}

// Subscribe attaches a listener invoked each time the registry snapshot is
// refreshed (typically whenever a new controller registers).
func (r *Registry) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, listener)
}

// Resources returns the registered resource names sorted for determinism.
func (r *Registry) Resources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resourceNamesLocked()
}

// Forms returns the embedded payload form descriptors, if any.
func (r *Registry) Forms() []PayloadForm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]PayloadForm(nil), r.forms...)
}

// Document compiles the registered providers and payload forms into a single
// document. Nil is returned when the registry holds nothing yet.
func (r *Registry) Document() map[string]any {
	r.mu.RLock()
	state := r.compileStateLocked()
	r.mu.RUnlock()
	return state.compile()
}

// Handler returns a go-router handler serving the aggregated document,
// typically mounted at `/admin/schemas`.
func (r *Registry) Handler() router.HandlerFunc {
	return func(ctx router.Context) error {
		doc := r.Document()
		if len(doc) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		return ctx.JSON(http.StatusOK, doc)
	}
}

// dispatch notifies local listeners and the optional publisher about schema
// changes. Callers must not hold the registry lock.
func (r *Registry) dispatch(ctx context.Context, state compileState, listeners []Listener, publisher ChangePublisher) {
	if len(listeners) == 0 && publisher == nil {
		return
	}
	doc := state.compile()
	if len(doc) == 0 {
		return
	}
	event := Snapshot{
		GeneratedAt:   time.Now().UTC(),
		ResourceNames: append([]string(nil), state.resourceNames...),
		Document:      doc,
	}
	for _, listener := range listeners {
		listener(ctx, event)
	}
	if publisher != nil {
		publisher.Notify(ctx, uuid.Nil, map[string]any{
			"event":     "schemas.registry.updated",
			"version":   state.info.Version,
			"resources": event.ResourceNames,
		})
	}
}

func (r *Registry) resourceNamesLocked() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// compileState carries everything needed to render a document outside the
// registry lock.
type compileState struct {
	providers        []router.MetadataProvider
	resourceNames    []string
	forms            []PayloadForm
	info             router.OpenAPIInfo
	tags             []string
	relationProvider router.RelationMetadataProvider
	uiOptions        *router.UISchemaOptions
}

func (r *Registry) compileStateLocked() compileState {
	names := r.resourceNamesLocked()
	providers := make([]router.MetadataProvider, 0, len(names))
	for _, name := range names {
		providers = append(providers, r.providers[name])
	}
	var uiOpts *router.UISchemaOptions
	if r.hasUIOptions {
		opts := r.uiOptions
		uiOpts = &opts
	}
	return compileState{
		providers:        providers,
		resourceNames:    names,
		forms:            r.forms,
		info:             r.info,
		tags:             append([]string(nil), r.tags...),
		relationProvider: r.relationProvider,
		uiOptions:        uiOpts,
	}
}

func (s compileState) compile() map[string]any {
	var doc map[string]any
	if len(s.providers) > 0 {
		aggregator := router.NewMetadataAggregator()
		if s.relationProvider != nil {
			aggregator.WithRelationProvider(s.relationProvider)
		}
		if s.uiOptions != nil {
			aggregator.WithUISchemaOptions(*s.uiOptions)
		}
		if len(s.tags) > 0 {
			aggregator.SetTags(s.tags)
		}
		if s.info.Title != "" {
			aggregator.SetInfo(s.info)
		}
		aggregator.AddProviders(s.providers...)
		aggregator.Compile()
		doc = aggregator.GenerateOpenAPI()
	}
	if len(s.forms) > 0 {
		if doc == nil {
			doc = make(map[string]any, 1)
		}
		doc[formsExtensionKey] = FormsDocument(s.forms)
	}
	return doc
}

// frozenMetadata pins provider metadata at registration time.
type frozenMetadata struct {
	metadata router.ResourceMetadata
}

func (f frozenMetadata) GetMetadata() router.ResourceMetadata {
	return f.metadata
}
