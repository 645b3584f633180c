package constants

import "time"

// DefaultAuthTimeout bounds interactive login flows (az login, gh auth login).
const DefaultAuthTimeout = 5 * time.Minute

// DefaultDeployTimeout bounds infrastructure deployment and provisioning.
const DefaultDeployTimeout = 45 * time.Minute

// DefaultNetworkTimeout bounds every other network-backed CLI call.
const DefaultNetworkTimeout = 2 * time.Minute

// TestContextTimeout is the timeout for test contexts.
const TestContextTimeout = 5 * time.Second
