package types

import (
	"github.com/gagliardetto/solana-go"
)

// SwitchboardPermission is a bitflag granted by a queue authority to a
// grantee account.
type SwitchboardPermission uint32

const (
	// PermitOracleHeartbeat allows an oracle to heartbeat on the granter
	// queue.
	PermitOracleHeartbeat SwitchboardPermission = 1 << 0
	// PermitOracleQueueUsage allows an aggregator to request updates from
	// the granter queue.
	PermitOracleQueueUsage SwitchboardPermission = 1 << 1
	// PermitVrfRequests allows a VRF account to request randomness from the
	// granter queue.
	PermitVrfRequests SwitchboardPermission = 1 << 2
)

// PermissionAccountData links an authority, granter and grantee. The account
// address is the PDA of ("PermissionAccountData", authority, granter,
// grantee).
type PermissionAccountData struct {
	// The authority that is allowed to set permissions for this account.
	Authority solana.PublicKey
	// The granted permission bitflags.
	Permissions uint32
	// The account granting the permission, typically a queue.
	Granter solana.PublicKey
	// The account being granted the permission.
	Grantee solana.PublicKey
	// Incremented on each permission change to invalidate stale usage.
	CurrentRevision uint32
	// Reserved.
	Ebuf [256]byte
}

// Has reports whether the permission bitflag is granted.
func (p *PermissionAccountData) Has(flag SwitchboardPermission) bool {
	return p.Permissions&uint32(flag) != 0
}

type PermissionInitParams struct {
	PermissionBump uint8
}

type PermissionSetParams struct {
	Permission uint32
	Enable     bool
}
