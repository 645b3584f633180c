package constants

// SessionSecretByteSize is the number of random bytes behind the SESSION_SECRET written to .env.
const SessionSecretByteSize = 16

// ProvisionSessionSecretByteSize is the number of random bytes behind the deployed app's session secret.
const ProvisionSessionSecretByteSize = 32

// DatabasePasswordLength is the length of the generated database server password.
const DatabasePasswordLength = 20

// DefaultPasswordAlphabet is the character set generated passwords are drawn from.
//
//nolint:gosec // G101: an alphabet, not a credential
const DefaultPasswordAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!@#$%^&*()+_-=}{[]|:;\"/?.><,`~"
