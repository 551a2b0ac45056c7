package types

// GroupAddress identifies which group container framing (spec §4.2) to use
// when wrapping a message body: the creator addresses members by group id
// alone, any other member must also carry the creator's identity.
type GroupAddress struct {
	CreatorIdentity string
	GroupID         uint64
	// IsCreator is true when the local identity created the group; it
	// selects the group-creator container instead of the group-member one.
	IsCreator bool
}
