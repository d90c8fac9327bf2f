package domain

// FallbackIdentity is used whenever the caller address cannot be resolved.
// Every visitor that falls back shares it, so dedup collapses for that group.
const FallbackIdentity = "127.0.0.1"

// UnknownPeer is what the client-ip endpoint reports when no header or peer address is usable.
const UnknownPeer = "0.0.0.0"
