package server

import (
	"fmt"
	"strings"
)

// normalizeProviderName lower-cases raw. Without a configured name it falls
// back to the provider's package (fixture, fpl, sportmonks), which is the
// label the clients use for their own ProviderName.
func normalizeProviderName(raw string, provider any) string {
	if name := strings.TrimSpace(raw); name != "" {
		return strings.ToLower(name)
	}
	if provider == nil {
		return "provider"
	}
	typeName := strings.TrimLeft(fmt.Sprintf("%T", provider), "*")
	if pkg, _, ok := strings.Cut(typeName, "."); ok {
		return strings.ToLower(pkg)
	}
	return strings.ToLower(typeName)
}
