package commands

import (
	"fmt"
	"strconv"
	"strings"

	"devicelink/internal/app"
	"devicelink/internal/domain/types"
)

// parseGroupAddress parses the "creator:groupId" shape used throughout
// this CLI to name a group on the command line (the same shape
// interfaces.InboundMessageContext.ChatID uses for groups).
func parseGroupAddress(s string) (types.GroupAddress, error) {
	creator, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return types.GroupAddress{}, fmt.Errorf("group %q: want creator:groupId", s)
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return types.GroupAddress{}, fmt.Errorf("group %q: bad groupId: %w", s, err)
	}
	return types.GroupAddress{CreatorIdentity: creator, GroupID: id}, nil
}

// groupMembers resolves a locally known group's member list, required by
// every group send operation.
func groupMembers(a *app.App, addr types.GroupAddress) ([]string, error) {
	g, ok, err := a.Groups.LoadGroup(addr.CreatorIdentity, addr.GroupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("group %s:%d not known locally", addr.CreatorIdentity, addr.GroupID)
	}
	return g.MemberIdentities, nil
}
