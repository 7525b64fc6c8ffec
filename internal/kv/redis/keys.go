package redis

// DefaultKeyPrefix namespaces every key written by the provider.
const DefaultKeyPrefix = "cookbook:"

// Key returns the Redis key for a provider key.
func (p *Provider) Key(key string) string {
	return p.prefix + key
}
