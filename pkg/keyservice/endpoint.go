package keyservice

import "net/url"

// Endpoint names one of the two server operations. The value is the fixed
// URL path segment the server expects.
type Endpoint string

const (
	// EndpointKey retrieves existing key material.
	EndpointKey Endpoint = "key"

	// EndpointCreateKey registers new key material.
	EndpointCreateKey Endpoint = "createkey"
)

// resolveURL builds the absolute URL for an endpoint:
//
//	{realmBaseUrl}/keyservice/{version}/{endpoint}
//
// The join is segment-wise: each segment is percent-encoded and separated
// by exactly one slash regardless of whether the base URL carries a
// trailing slash. The client always appends the keyservice/{version}
// prefix; a base URL that already ends in one gets it twice, which is the
// caller's configuration to fix.
func resolveURL(base *url.URL, version Version, ep Endpoint) *url.URL {
	return base.JoinPath("keyservice", string(version), string(ep))
}
