package sys

import (
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// IsOwner reports whether userID is listed in OWNER_IDS.
func IsOwner(userID snowflake.ID) bool {
	if GlobalConfig == nil {
		return false
	}
	return slices.Contains(GlobalConfig.OwnerIDs, userID.String())
}

// CanModerate gates suggestion approval and pool maintenance.
// member is nil outside of guilds.
func CanModerate(userID snowflake.ID, member *discord.ResolvedMember) bool {
	if IsOwner(userID) {
		return true
	}
	if member == nil {
		return false
	}
	return member.Permissions.Has(discord.PermissionAdministrator) ||
		member.Permissions.Has(discord.PermissionManageMessages)
}
