package cache

// PlanKeyOpts captures the resolution options that affect plan identity.
// Two resolutions with the same descriptor hash and the same options are
// guaranteed to produce the same plan content, so they share a cache entry.
type PlanKeyOpts struct {
	Features          []string `json:"features"`
	NoDefaultFeatures bool     `json:"no_default_features"`
	AllFeatures       bool     `json:"all_features"`
	IncludeDev        bool     `json:"include_dev"`
	IncludeBuild      bool     `json:"include_build"`
}

// PlanKey generates a cache key for a resolved build plan.
// descriptorHash should be the SHA-256 hash of the raw descriptor bytes
// (see [Hash]); opts are the resolution options used.
func PlanKey(descriptorHash string, opts PlanKeyOpts) string {
	return hashKey("plan", descriptorHash, opts)
}

// RegistryKey generates a cache key for a registry API response.
func RegistryKey(registry, name string) string {
	return hashKey("registry", registry, name)
}
