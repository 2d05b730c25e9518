package cache

import "fmt"

const (
	// Namespace is the base prefix isolating the service's data in Redis.
	Namespace = "agentdesk"

	// ChannelVersionChanged carries a JSON domain.VersionChange after every committed mutation.
	ChannelVersionChanged = Namespace + ":events:version-changed"
)

// VersionListKey is the cache key of one agent's version list within a tenant.
func VersionListKey(tenantID string, agentID int64) string {
	return fmt.Sprintf("%s:versions:%s:%d", Namespace, tenantID, agentID)
}

// VersionGenerationKey counts invalidations of one agent's version list.
func VersionGenerationKey(tenantID string, agentID int64) string {
	return fmt.Sprintf("%s:versions-gen:%s:%d", Namespace, tenantID, agentID)
}
