// Package profile defines the credential/configuration contract the core
// treats as opaque (, §6). Loading a Profile from disk, SSO token
// exchange, and persistence are external collaborators — out of scope here.
package profile

import "time"

// SSO carries the subset of SSO session fields the core needs to tell
// whether a Profile's credentials must be refreshed by its (external)
// loader before use. The core never performs the token exchange itself.
type SSO struct {
	StartURL string
	AccountID string
	RoleName string
}

// Profile is the opaque configuration struct the engine and model are
// handed at startup or on profile switch.
type Profile struct {
	Name string
	Region string
	EndpointURL string
	AccessKeyID string
	SecretAccessKey string
	SessionToken string
	SSO *SSO

	// Tunables. These are the engine/model knobs an embedder would
	// otherwise wire up from a config file or CLI flags (out of scope);
	// here they're plain fields with sane defaults, matching how
	// peak-s5cmd/command/app.go exposes defaultWorkerCount etc.
	HighWorkers int
	LowWorkers int
	StreamChunkSize int64
	PreviewCacheSize int
	FrecencyCacheSize int
	MaxLinePreviewSize int64
	PreviewRequestSize int64
	MaxPreviewObjectSize int64
}

const (
	DefaultRegion = "us-east-1"
	defaultHighWorkers = 4
	defaultLowWorkers = 2
	defaultStreamChunkSize = 256 * 1024
	defaultPreviewCacheSize = 50
	defaultFrecencyCacheSize = 500
	defaultMaxLinePreviewSize = 10 * 1024 * 1024
	defaultPreviewRequestSize = 64 * 1024
	defaultMaxPreviewObjectSize = 100 * 1024 * 1024
)

// New returns a Profile with spec-mandated defaults applied. Region
// defaults to "us-east-1" when empty Profile invariant.
func New(name string) *Profile {
	return &Profile{
 Name: name,
 Region: DefaultRegion,
 HighWorkers: defaultHighWorkers,
 LowWorkers: defaultLowWorkers,
 StreamChunkSize: defaultStreamChunkSize,
 PreviewCacheSize: defaultPreviewCacheSize,
 FrecencyCacheSize: defaultFrecencyCacheSize,
 MaxLinePreviewSize: defaultMaxLinePreviewSize,
 PreviewRequestSize: defaultPreviewRequestSize,
 MaxPreviewObjectSize: defaultMaxPreviewObjectSize,
	}
}

// EffectiveRegion returns Region, defaulting to DefaultRegion when unset.
func (p *Profile) EffectiveRegion() string {
	if p.Region == "" {
 return DefaultRegion
	}
	return p.Region
}

// NeedsRefresh reports whether this is an SSO-only profile whose
// credentials haven't been loaded from the session cache yet (:
// "if SSO-only, credentials loaded from session cache before use").
func (p *Profile) NeedsRefresh() bool {
	return p.SSO != nil && p.AccessKeyID == ""
}

// PresignExpiry is the default lifetime for presigned GET URLs handed to
// external collaborators (e.g. an "open in browser" action).
const PresignExpiry = 15 * time.Minute
